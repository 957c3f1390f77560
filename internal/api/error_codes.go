// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest      = "BAD_REQUEST"
	ErrorNotFound        = "NOT_FOUND"
	ErrorInternalError   = "INTERNAL_ERROR"
	ErrorPayloadTooLarge = "PAYLOAD_TOO_LARGE"

	// 素材相关错误
	ErrorContentNotFound   = "CONTENT_NOT_FOUND"
	ErrorContentEmpty      = "CONTENT_EMPTY"
	ErrorUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrorFileUploadFailed  = "FILE_UPLOAD_FAILED"

	// 写作档案相关错误
	ErrorProfileNotFound     = "PROFILE_NOT_FOUND"
	ErrorInvalidSampleFormat = "INVALID_SAMPLE_FORMAT"

	// 生成相关错误
	ErrorScriptNotFound  = "SCRIPT_NOT_FOUND"
	ErrorSlidesNotFound  = "SLIDES_NOT_FOUND"
	ErrorMissingSource   = "MISSING_SOURCE"
	ErrorGenerationFail  = "GENERATION_FAILED"
	ErrorMalformedOutput = "MALFORMED_GENERATION_OUTPUT"
	ErrorCorruptRecord   = "CORRUPT_RECORD"

	// LLM服务相关错误
	ErrorLLMServiceUnavailable = "LLM_SERVICE_UNAVAILABLE"
)
