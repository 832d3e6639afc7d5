// Package errors renders service errors as JSON with the request trace id.
package errors

import (
	"errors"
	"net/http"
	"time"

	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
type AppError struct {
	Code    int      `json:"code"`
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Cause:      cause,
		HTTPStatus: c.StatusCode(),
		Timestamp:  time.Now(),
	}
}

// ErrorResponse maps err to a JSON error body. *code.Code keeps its own
// HTTP status, anything else becomes a 500.
func ErrorResponse(c *gin.Context, err error) {
	traceID := c.GetString(pkgapp.TraceIDKey)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		c.JSON(statusOr(appErr.HTTPStatus), appErr)
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		c.JSON(codeErr.StatusCode(), &AppError{
			Code:      codeErr.Code(),
			Status:    codeErr.Status(),
			Message:   codeErr.MsgIn(pkgapp.GetLang(c)),
			Details:   codeErr.Details(),
			TraceID:   traceID,
			Timestamp: time.Now(),
		})
		return
	}

	internal := code.ErrorServerInternal
	c.JSON(internal.StatusCode(), &AppError{
		Code:      internal.Code(),
		Message:   internal.MsgIn(pkgapp.GetLang(c)),
		TraceID:   traceID,
		Timestamp: time.Now(),
	})
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func statusOr(status int) int {
	if status == 0 {
		return http.StatusInternalServerError
	}
	return status
}
