// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType string

const (
	// 流水线各阶段的错误类型
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeCorruptRecord   ErrorType = "corrupt_record"
	ErrorTypeUnsupported     ErrorType = "unsupported_format"
	ErrorTypeMissingSource   ErrorType = "missing_source"
	ErrorTypeGeneration      ErrorType = "generation_failed"
	ErrorTypeMalformedOutput ErrorType = "malformed_generation_output"
	ErrorTypeError           ErrorType = "processing_error"
)

// AppError 应用程序错误结构
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string // 用户友好的错误代码
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 实现错误链接
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 创建新的 AppError
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewValidationError 创建验证错误
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewCorruptRecordError 创建存储记录损坏错误
func NewCorruptRecordError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeCorruptRecord, message, originalError)
}

// NewUnsupportedFormatError 创建不支持的文件格式错误
func NewUnsupportedFormatError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUnsupported, message, originalError)
}

// NewMissingSourceError 创建缺少生成来源错误
func NewMissingSourceError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeMissingSource, message, originalError)
}

// NewGenerationError 创建模型调用失败错误
func NewGenerationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeGeneration, message, originalError)
}

// NewMalformedOutputError 创建模型输出无法解析错误
func NewMalformedOutputError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeMalformedOutput, message, originalError)
}

// NewProcessingError 创建处理错误
func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

// IsValidationError 检查是否为验证错误
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsNotFoundError 检查是否为未找到错误
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsCorruptRecordError 检查是否为记录损坏错误
func IsCorruptRecordError(err error) bool {
	return hasType(err, ErrorTypeCorruptRecord)
}

// IsUnsupportedFormatError 检查是否为不支持格式错误
func IsUnsupportedFormatError(err error) bool {
	return hasType(err, ErrorTypeUnsupported)
}

// IsMissingSourceError 检查是否为缺少来源错误
func IsMissingSourceError(err error) bool {
	return hasType(err, ErrorTypeMissingSource)
}

// IsGenerationError 检查是否为生成失败错误
func IsGenerationError(err error) bool {
	return hasType(err, ErrorTypeGeneration)
}

// IsMalformedOutputError 检查是否为模型输出解析失败错误
func IsMalformedOutputError(err error) bool {
	return hasType(err, ErrorTypeMalformedOutput)
}

func hasType(err error, errType ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == errType
	}
	return false
}

// generateErrorCode 根据错误类型生成错误代码
func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeCorruptRecord:
		return "CORRUPT_RECORD"
	case ErrorTypeUnsupported:
		return "UNSUPPORTED_FORMAT"
	case ErrorTypeMissingSource:
		return "MISSING_SOURCE"
	case ErrorTypeGeneration:
		return "GENERATION_FAILED"
	case ErrorTypeMalformedOutput:
		return "MALFORMED_GENERATION_OUTPUT"
	case ErrorTypeError:
		return "PROCESSING_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError 包装现有错误
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		// 如果已经是 AppError，只更新消息
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	// 否则创建新的 AppError
	return NewAppError(errType, message, err)
}
