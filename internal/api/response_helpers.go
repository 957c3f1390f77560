// internal/api/response_helpers.go
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
)

// APIError 标准错误响应格式
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ResponseHelper 响应助手类
type ResponseHelper struct{}

// NewResponseHelper 创建响应助手
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success 成功响应
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误响应
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string) {
	c.JSON(statusCode, &APIError{
		Error:   errorCode,
		Message: message,
	})
}

// BadRequest 400错误响应
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string) {
	rh.Error(c, http.StatusBadRequest, ErrorBadRequest, message)
}

// NotFound 404错误响应
func (rh *ResponseHelper) NotFound(c *gin.Context, resource, message string) {
	rh.Error(c, http.StatusNotFound, rh.getResourceNotFoundCode(resource), message)
}

// InternalError 500错误响应
func (rh *ResponseHelper) InternalError(c *gin.Context, message string) {
	rh.Error(c, http.StatusInternalServerError, ErrorInternalError, message)
}

// PayloadTooLarge 413错误响应
func (rh *ResponseHelper) PayloadTooLarge(c *gin.Context, message string) {
	rh.Error(c, http.StatusRequestEntityTooLarge, ErrorPayloadTooLarge, message)
}

// FileDownload 附件下载响应
func (rh *ResponseHelper) FileDownload(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// FromAppError 根据应用错误的类型映射HTTP状态码和错误代码
// resource用于404错误代码的细化，可为空
func (rh *ResponseHelper) FromAppError(c *gin.Context, resource string, err error) {
	switch {
	case apperrors.IsValidationError(err):
		rh.Error(c, http.StatusBadRequest, ErrorBadRequest, appMessage(err))
	case apperrors.IsNotFoundError(err):
		rh.NotFound(c, resource, appMessage(err))
	case apperrors.IsUnsupportedFormatError(err):
		rh.Error(c, http.StatusBadRequest, ErrorUnsupportedFormat, appMessage(err))
	case apperrors.IsMissingSourceError(err):
		rh.Error(c, http.StatusBadRequest, ErrorMissingSource, appMessage(err))
	case apperrors.IsGenerationError(err):
		rh.Error(c, http.StatusInternalServerError, ErrorGenerationFail, appMessage(err))
	case apperrors.IsMalformedOutputError(err):
		rh.Error(c, http.StatusInternalServerError, ErrorMalformedOutput, appMessage(err))
	case apperrors.IsCorruptRecordError(err):
		rh.Error(c, http.StatusInternalServerError, ErrorCorruptRecord, appMessage(err))
	default:
		rh.InternalError(c, "服务器内部错误")
	}
}

// appMessage 只向外暴露应用错误自身的消息，不附带底层错误细节
func appMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// getResourceNotFoundCode 根据资源类型生成错误代码
func (rh *ResponseHelper) getResourceNotFoundCode(resource string) string {
	switch resource {
	case "content":
		return ErrorContentNotFound
	case "profile":
		return ErrorProfileNotFound
	case "script":
		return ErrorScriptNotFound
	case "slides":
		return ErrorSlidesNotFound
	default:
		return ErrorNotFound
	}
}
