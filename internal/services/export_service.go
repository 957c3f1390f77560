// internal/services/export_service.go
package services

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// ExportService 把存储的制品确定性地渲染为可下载的文档格式
type ExportService struct{}

// NewExportService 创建导出服务
func NewExportService() *ExportService {
	return &ExportService{}
}

// 讲稿PDF的版面常量（单位pt）
const (
	pdfMargin      = 72.0
	pdfBodySize    = 12.0
	pdfHeadingSize = 14.0
	pdfTitleSize   = 20.0
	pdfLineHeight  = 15.0
)

// 整行被单层方括号包裹视为小节标题
var sectionHeadingRe = regexp.MustCompile(`^\s*\[.+\]\s*$`)

// 讲稿行的分类
type scriptLineKind int

const (
	lineBlank scriptLineKind = iota
	lineHeading
	lineEmphasis
	lineBody
)

// classifyScriptLine 单行分类，纯函数
func classifyScriptLine(line string) scriptLineKind {
	if strings.TrimSpace(line) == "" {
		return lineBlank
	}
	if sectionHeadingRe.MatchString(line) {
		return lineHeading
	}
	// 暂停点、关键概念等标记行用强调样式
	if strings.Contains(line, "[Pause") || strings.Contains(line, "[Key") || strings.Contains(line, "{") {
		return lineEmphasis
	}
	return lineBody
}

// RenderScriptPDF 把讲稿文本渲染为单栏PDF字节流
// 单遍按行处理：小节标题切换in-section状态，之后的段落间距收紧；
// 分页由自动溢出处理，不手工控制
func (s *ExportService) RenderScriptPDF(script *models.ScriptArtifact) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Instructor Script", true)
	pdf.SetAuthor("Adaptive Curriculum Engine", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// 标题页头部和生成时间戳
	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.CellFormat(0, pdfTitleSize*1.2, "Instructor Script", "", 1, "C", false, 0, "")
	pdf.Ln(pdfLineHeight)

	pdf.SetFont("Helvetica", "", pdfBodySize)
	generatedOn := "Generated on: " + time.Now().Format("1/2/2006")
	pdf.CellFormat(0, pdfLineHeight, generatedOn, "", 1, "C", false, 0, "")
	pdf.Ln(pdfLineHeight * 2)

	// 行级折叠状态：只有in-section一个标志
	inSection := false

	for _, line := range strings.Split(script.Content, "\n") {
		trimmed := strings.TrimSpace(line)

		switch classifyScriptLine(line) {
		case lineBlank:
			// 空行只产生垂直间隔
			pdf.Ln(pdfLineHeight * 0.5)

		case lineHeading:
			// 远离页首的大节标题前加空行
			if pdf.GetY() > 150 {
				pdf.Ln(pdfLineHeight)
			}
			pdf.SetFont("Helvetica", "B", pdfHeadingSize)
			pdf.MultiCell(0, pdfLineHeight, tr(trimmed), "", "L", false)
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.Ln(pdfLineHeight * 0.5)
			inSection = true

		case lineEmphasis:
			pdf.SetFont("Helvetica", "I", pdfBodySize)
			pdf.MultiCell(0, pdfLineHeight, tr(trimmed), "", "L", false)
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.Ln(pdfLineHeight * 0.5)

		case lineBody:
			pdf.MultiCell(0, pdfLineHeight, tr(trimmed), "", "L", false)
			if inSection {
				pdf.Ln(pdfLineHeight * 0.3)
			} else {
				pdf.Ln(pdfLineHeight * 0.5)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewProcessingError("渲染PDF失败", err)
	}

	utils.GetLogger().Info("讲稿PDF已渲染", map[string]interface{}{
		"script_id": script.ID,
		"bytes":     buf.Len(),
	})

	return buf.Bytes(), nil
}

// RenderSlidesPPTX 把幻灯片数组渲染为PPTX字节流
func (s *ExportService) RenderSlidesPPTX(slides []models.Slide) ([]byte, error) {
	if len(slides) == 0 {
		return nil, apperrors.NewValidationError("幻灯片数组为空", nil)
	}

	data, err := writePPTX(slides)
	if err != nil {
		return nil, apperrors.NewProcessingError("渲染PPTX失败", err)
	}

	utils.GetLogger().Info("幻灯片PPTX已渲染", map[string]interface{}{
		"slide_count": len(slides),
		"bytes":       len(data),
	})

	return data, nil
}
