package namedb

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSource 透過 HTTP 取得撰寫文件
type HTTPSource struct {
	url    string
	client *resty.Client
}

// NewHTTPSource 建立 HTTP 來源
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Accept", "application/yaml, application/json, text/plain").
		SetHeader("User-Agent", "dish-namer")

	return &HTTPSource{url: url, client: client}
}

// Read 下載文件
func (s *HTTPSource) Read() ([]byte, error) {
	resp, err := s.client.R().Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", s.url, ErrSourceNotFound)
	default:
		return nil, fmt.Errorf("fetch %s returned status %d", s.url, resp.StatusCode())
	}
}

// Name 回傳 URL
func (s *HTTPSource) Name() string { return s.url }

// Format 依 URL 副檔名判斷格式
func (s *HTTPSource) Format() Format {
	if strings.Contains(strings.ToLower(s.url), "format=json") {
		return FormatJSON
	}
	return FormatFor(s.url)
}

// NewSource 依位置建立檔案或 HTTP 來源
func NewSource(location string, defaults []byte, timeout time.Duration) Source {
	if IsRemote(location) {
		return NewHTTPSource(location, timeout)
	}
	return NewFileSource(location, defaults)
}
