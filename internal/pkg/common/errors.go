package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error { return e.Err }

// Is 以錯誤代碼比對，讓 errors.Is 能辨識包裝過的預定義錯誤
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == e.Code
}

// WithError 複製預定義錯誤並附上原始錯誤
func (e *CustomError) WithError(err error) *CustomError {
	clone := *e
	clone.Err = err
	return &clone
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError，找不到時回傳內部錯誤
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternalError.WithError(err)
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError = "INTERNAL_ERROR" // 500

	// 業務錯誤
	ErrCodeJobNotFound     = "JOB_NOT_FOUND"
	ErrCodeInvalidJob      = "INVALID_JOB"
	ErrCodeReloadFailed    = "RELOAD_FAILED"
	ErrCodeStoreDisabled   = "STORE_UNAVAILABLE"
	ErrCodeInvalidQuality  = "INVALID_QUALITY"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// 預定義錯誤
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrRequestTooLarge = NewError(ErrCodeRequestTooLarge, "請求內容過大", http.StatusRequestEntityTooLarge, nil)

	ErrInternalError = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)

	ErrJobNotFound    = NewError(ErrCodeJobNotFound, "找不到烹飪工作", http.StatusNotFound, nil)
	ErrInvalidJob     = NewError(ErrCodeInvalidJob, "無效的烹飪工作", http.StatusBadRequest, nil)
	ErrInvalidQuality = NewError(ErrCodeInvalidQuality, "無效的餐點品質", http.StatusBadRequest, nil)
	ErrReloadFailed   = NewError(ErrCodeReloadFailed, "菜名資料重新載入失敗", http.StatusUnprocessableEntity, nil)
	ErrStoreDisabled  = NewError(ErrCodeStoreDisabled, "工作儲存無法使用", http.StatusServiceUnavailable, nil)
)
