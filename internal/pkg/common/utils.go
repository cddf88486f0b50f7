package common

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ErrorBody 將錯誤轉成 HTTP 狀態碼與錯誤響應；debug 模式附上原始錯誤
func ErrorBody(err error, debug bool) (int, ErrorResponse) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrRequestTooLarge.Status, ErrorResponse{Code: ErrRequestTooLarge.Code, Message: ErrRequestTooLarge.Message}
	}
	if IsValidationError(err) {
		resp := ErrorResponse{Code: ErrCodeInvalidRequest, Message: err.Error()}
		return http.StatusBadRequest, resp
	}

	ce := AsCustomError(err)
	resp := ErrorResponse{Code: ce.Code, Message: ce.Message}
	if debug && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	return ce.Status, resp
}
