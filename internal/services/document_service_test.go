// internal/services/document_service_test.go
package services

import (
	"strings"
	"testing"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
)

// TestExtractTextPlainVerbatim 测试纯文本按原样返回，不做清洗
func TestExtractTextPlainVerbatim(t *testing.T) {
	svc := NewDocumentService()

	raw := "Line one\r\n\r\n\r\n\r\nLine   with   runs\t!"
	got, err := svc.ExtractText([]byte(raw), MimePlainText)
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if got != raw {
		t.Errorf("纯文本提取应原样返回: got %q", got)
	}
}

// TestExtractTextUnsupportedMime 测试不支持的类型错误中携带MIME
func TestExtractTextUnsupportedMime(t *testing.T) {
	svc := NewDocumentService()

	_, err := svc.ExtractText([]byte("fake"), "image/png")
	if err == nil {
		t.Fatal("不支持的类型应报错")
	}
	if !apperrors.IsUnsupportedFormatError(err) {
		t.Errorf("错误类型应为UnsupportedFormat: %v", err)
	}
	if !strings.Contains(err.Error(), "image/png") {
		t.Errorf("错误信息应携带MIME类型: %v", err)
	}
}

// TestExtractTextCorruptPDF 测试非PDF字节流报处理错误而不是崩溃
func TestExtractTextCorruptPDF(t *testing.T) {
	svc := NewDocumentService()

	if _, err := svc.ExtractText([]byte("definitely not a pdf"), MimePDF); err == nil {
		t.Error("损坏的PDF应报错")
	}
}

// TestCleanText 清洗规则表驱动测试
func TestCleanText(t *testing.T) {
	svc := NewDocumentService()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"空输入", "", ""},
		{"CRLF统一", "a\r\nb\rc", "a\nb\nc"},
		{"行内空白压缩", "a   b\t\tc", "a b c"},
		{"控制字符去除", "a\x00b\x1fc", "abc"},
		{"连续空行压缩", "a\n\n\n\n\nb", "a\n\nb"},
		{"首尾空白裁剪", "  \n a \n  ", "a"},
		{"保留双空行", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestAnalyzeStructure 测试标题、小节和列表项识别
func TestAnalyzeStructure(t *testing.T) {
	svc := NewDocumentService()

	text := "Introduction to Biology\n\n" +
		"CHAPTER ONE\n" +
		"Key terms:\n" +
		"- cell membrane\n" +
		"- mitochondria\n" +
		"1. First process\n" +
		"regular paragraph text here\n"

	structure := svc.AnalyzeStructure(text)

	if structure.Title != "Introduction to Biology" {
		t.Errorf("标题应为第一个非空行: %q", structure.Title)
	}

	var sectionTexts []string
	for _, s := range structure.Sections {
		sectionTexts = append(sectionTexts, s.Text)
	}
	if !containsString(sectionTexts, "CHAPTER ONE") {
		t.Errorf("全大写行应识别为小节: %v", sectionTexts)
	}
	if !containsString(sectionTexts, "Key terms:") {
		t.Errorf("冒号结尾行应识别为小节: %v", sectionTexts)
	}

	var itemTexts []string
	for _, item := range structure.ListItems {
		itemTexts = append(itemTexts, item.Text)
	}
	if !containsString(itemTexts, "- cell membrane") {
		t.Errorf("连字符列表项未识别: %v", itemTexts)
	}
	if !containsString(itemTexts, "1. First process") {
		t.Errorf("编号列表项未识别: %v", itemTexts)
	}

	// 位置应指向原文中的偏移
	for _, s := range structure.Sections {
		if s.Position < 0 || s.Position >= len(text) {
			t.Errorf("小节位置越界: %d", s.Position)
		}
	}
}

// TestAnalyzeStructureEmpty 测试空文本的结构分析
func TestAnalyzeStructureEmpty(t *testing.T) {
	svc := NewDocumentService()

	structure := svc.AnalyzeStructure("")
	if structure.Title != "" {
		t.Errorf("空文本标题应为空: %q", structure.Title)
	}
	if structure.Sections == nil || structure.ListItems == nil {
		t.Error("小节和列表项应为空切片而非nil")
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
