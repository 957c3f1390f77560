// internal/services/content_service_test.go
package services

import (
	"testing"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
)

// TestContentRoundTripVerbatim 测试素材文本原样往返，不被静默规范化
func TestContentRoundTripVerbatim(t *testing.T) {
	svc := NewContentService(storage.NewMemoryStore())

	raw := "Line one\r\n\r\n\r\n   indented\t\ttabs   \nLine   runs"
	record, err := svc.Create(raw)
	if err != nil {
		t.Fatalf("创建素材失败: %v", err)
	}
	if record.ID == "" {
		t.Fatal("素材ID不应为空")
	}

	got, err := svc.Get(record.ID)
	if err != nil {
		t.Fatalf("读取素材失败: %v", err)
	}
	if got.Text != raw {
		t.Errorf("素材文本被修改: got %q, want %q", got.Text, raw)
	}
}

// TestContentCreateEmpty 测试空文本报校验错误
func TestContentCreateEmpty(t *testing.T) {
	svc := NewContentService(storage.NewMemoryStore())

	_, err := svc.Create("")
	if !apperrors.IsValidationError(err) {
		t.Errorf("空文本应报校验错误: %v", err)
	}
}

// TestContentGetMissing 测试不存在的ID返回NotFound
func TestContentGetMissing(t *testing.T) {
	svc := NewContentService(storage.NewMemoryStore())

	_, err := svc.Get("never-created")
	if !apperrors.IsNotFoundError(err) {
		t.Errorf("不存在的ID应返回NotFound: %v", err)
	}
}

// TestContentUniqueIDs 测试重复创建生成不同ID
func TestContentUniqueIDs(t *testing.T) {
	svc := NewContentService(storage.NewMemoryStore())

	a, err := svc.Create("same text")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	b, err := svc.Create("same text")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if a.ID == b.ID {
		t.Error("相同文本的两次创建应有不同ID")
	}
}
