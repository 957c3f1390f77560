// internal/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorTypeChecks 测试各类型判断函数
func TestErrorTypeChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"校验错误", NewValidationError("bad input", nil), IsValidationError},
		{"未找到", NewNotFoundError("missing", nil), IsNotFoundError},
		{"记录损坏", NewCorruptRecordError("bad json", nil), IsCorruptRecordError},
		{"格式不支持", NewUnsupportedFormatError("bad mime", nil), IsUnsupportedFormatError},
		{"来源缺失", NewMissingSourceError("no source", nil), IsMissingSourceError},
		{"生成失败", NewGenerationError("llm down", nil), IsGenerationError},
		{"输出格式错误", NewMalformedOutputError("not json", nil), IsMalformedOutputError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("类型判断失败: %v", tt.err)
			}
			// 其他类型不应误判
			if tt.err != tests[0].err && IsValidationError(tt.err) && tt.name != "校验错误" {
				t.Errorf("错误被误判为校验错误: %v", tt.err)
			}
		})
	}
}

// TestErrorTypeChecksThroughWrapping 测试包裹后类型判断仍然有效
func TestErrorTypeChecksThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("素材不存在", nil)
	wrapped := fmt.Errorf("处理请求失败: %w", inner)

	if !IsNotFoundError(wrapped) {
		t.Error("包裹后的错误应仍判断为NotFound")
	}
	if IsGenerationError(wrapped) {
		t.Error("包裹不应改变错误类型")
	}
}

// TestUnwrap 测试原始错误可通过errors.Is访问
func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	appErr := NewProcessingError("保存失败", cause)

	if !errors.Is(appErr, cause) {
		t.Error("应能通过errors.Is找到原始错误")
	}
}

// TestErrorMessage 测试错误消息包含原始错误信息
func TestErrorMessage(t *testing.T) {
	cause := errors.New("underlying")
	appErr := NewGenerationError("生成失败", cause)

	msg := appErr.Error()
	if msg == "" {
		t.Fatal("错误消息不应为空")
	}

	bare := NewValidationError("只有消息", nil)
	if bare.Error() != "只有消息" {
		t.Errorf("无原始错误时消息应为自身: %q", bare.Error())
	}
}

// TestWrapError 测试用指定类型包裹普通错误
func TestWrapError(t *testing.T) {
	plain := errors.New("plain")
	wrapped := WrapError(plain, "读取失败", ErrorTypeCorruptRecord)

	if !IsCorruptRecordError(wrapped) {
		t.Errorf("包裹后类型错误: %v", wrapped)
	}
	if WrapError(nil, "x", ErrorTypeError) != nil {
		t.Error("nil错误包裹应返回nil")
	}
}
