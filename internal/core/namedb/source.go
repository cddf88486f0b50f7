package namedb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dish-namer/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrSourceNotFound 來源文件不存在
var ErrSourceNotFound = errors.New("data source not found")

// Source 撰寫文件的來源
type Source interface {
	// Read 讀取整份文件
	Read() ([]byte, error)
	// Name 來源名稱（路徑或 URL），用於日誌
	Name() string
	// Format 文件格式
	Format() Format
}

// FileSource 本機檔案來源。檔案不存在時寫入預設內容後繼續使用。
type FileSource struct {
	path     string
	defaults []byte
}

// NewFileSource 建立檔案來源；defaults 為 nil 時檔案不存在會回傳 ErrSourceNotFound
func NewFileSource(path string, defaults []byte) *FileSource {
	return &FileSource{path: path, defaults: defaults}
}

// Read 讀取檔案
func (s *FileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if s.defaults == nil {
		return nil, fmt.Errorf("%s: %w", s.path, ErrSourceNotFound)
	}

	if err := writeDefault(s.path, s.defaults); err != nil {
		common.LogWarn("Failed to write default data document",
			zap.String("path", s.path),
			zap.Error(err),
		)
	} else {
		common.LogInfo("已寫入預設資料文件", zap.String("path", s.path))
	}
	return s.defaults, nil
}

func writeDefault(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Name 回傳檔案路徑
func (s *FileSource) Name() string { return s.path }

// Format 依副檔名判斷格式
func (s *FileSource) Format() Format { return FormatFor(s.path) }

// Path 回傳檔案路徑
func (s *FileSource) Path() string { return s.path }

// BytesSource 記憶體內來源，主要用於測試與 CLI
type BytesSource struct {
	Data   []byte
	Label  string
	Kind   Format
	ReadFn func() ([]byte, error)
}

// Read 回傳內容
func (s *BytesSource) Read() ([]byte, error) {
	if s.ReadFn != nil {
		return s.ReadFn()
	}
	return s.Data, nil
}

// Name 回傳名稱
func (s *BytesSource) Name() string {
	if s.Label == "" {
		return "memory"
	}
	return s.Label
}

// Format 回傳格式
func (s *BytesSource) Format() Format {
	if s.Kind == "" {
		return FormatYAML
	}
	return s.Kind
}

// IsRemote 判斷路徑是否為 http(s) URL
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
