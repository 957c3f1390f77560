// internal/services/document_service.go
package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// 支持的上传MIME类型
const (
	MimePDF       = "application/pdf"
	MimeWordOOXML = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeWordMS    = "application/msword"
	MimePlainText = "text/plain"
)

// DocumentService 把上传的文档转换为规范化纯文本
type DocumentService struct{}

// NewDocumentService 创建文档处理服务
func NewDocumentService() *DocumentService {
	return &DocumentService{}
}

// ExtractText 按MIME类型提取文本
// 不支持的类型返回携带该MIME的 UnsupportedFormat 错误
func (s *DocumentService) ExtractText(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimePDF:
		return s.extractFromPDF(data)
	case MimeWordMS, MimeWordOOXML:
		return s.extractFromWord(data)
	case MimePlainText:
		// 按UTF-8原样解码
		return string(data), nil
	default:
		return "", apperrors.NewUnsupportedFormatError(
			fmt.Sprintf("不支持的文件类型: %s", mimeType), nil)
	}
}

// extractFromPDF 逐页提取PDF文本
func (s *DocumentService) extractFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewProcessingError("解析PDF失败", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// 跳过提取失败的页
			utils.GetLogger().Warn("PDF单页提取失败", map[string]interface{}{
				"page":  pageIndex,
				"error": err.Error(),
			})
			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	result := sb.String()
	if strings.TrimSpace(result) == "" {
		return "", apperrors.NewProcessingError("PDF中没有可提取的文本", nil)
	}

	return result, nil
}

// extractFromWord 提取Word文档文本，丢弃所有格式
// OOXML文档走zip包内 word/document.xml；老格式做尽力而为的文本打捞
func (s *DocumentService) extractFromWord(data []byte) (string, error) {
	if isZipContainer(data) {
		return extractDOCX(data)
	}

	// 老的二进制.doc：没有纯Go解析器可用，打捞可打印文本段
	text := salvageBinaryText(data)
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewProcessingError("Word文档中没有可提取的文本", nil)
	}
	return text, nil
}

func isZipContainer(b []byte) bool {
	// ZIP local file header: PK\x03\x04
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// extractDOCX 遍历 word/document.xml，收集 w:t 文本，段落结束补换行
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewProcessingError("解析DOCX失败", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", apperrors.NewProcessingError("读取DOCX正文失败", err)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", apperrors.NewProcessingError("读取DOCX正文失败", err)
			}
			break
		}
	}

	if docXML == nil {
		return "", apperrors.NewProcessingError("DOCX中缺少word/document.xml", nil)
	}

	decoder := xml.NewDecoder(bytes.NewReader(docXML))
	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", apperrors.NewProcessingError("解析DOCX正文XML失败", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

// salvageBinaryText 从二进制中打捞连续的可打印字符段（≥4字符）
func salvageBinaryText(data []byte) string {
	var sb strings.Builder
	var run []byte

	flush := func() {
		if len(run) >= 4 {
			sb.Write(run)
			sb.WriteString(" ")
		}
		run = run[:0]
	}

	for _, b := range data {
		if b == '\n' || b == '\t' || (b >= 0x20 && b <= 0x7E) {
			run = append(run, b)
		} else {
			flush()
		}
	}
	flush()

	return strings.TrimSpace(sb.String())
}

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)

	// 结构分析的启发式规则
	sectionLineRe  = regexp.MustCompile(`(?m)^([A-Z][^a-z\n:]{2,}|.*:|\s*#+\s+.*|\s*\d+\.\s+[A-Z].*)$`)
	listItemLineRe = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+.*$|^[ \t]*\d+\.[ \t]+.*$`)
)

// CleanText 规范化提取出的文本：
// 统一换行为LF，去除控制字符，行内空白压缩为单个空格，
// 三个以上连续空行压缩为一个。调用方按需使用，提取本身不做规范化。
func (s *DocumentService) CleanText(text string) string {
	if text == "" {
		return ""
	}

	// 统一换行
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// 去除控制字符（保留换行和制表符，制表符随后作为行内空白压缩）
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, text)

	// 行内空白压缩
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	// 多个连续空行压缩为一个
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// AnalyzeStructure 分析文档结构（标题、小节、列表项）
func (s *DocumentService) AnalyzeStructure(text string) models.DocumentStructure {
	structure := models.DocumentStructure{
		Sections:  []models.StructureMarker{},
		ListItems: []models.StructureMarker{},
	}

	// 第一个非空行作为标题
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			structure.Title = trimmed
			break
		}
	}

	for _, loc := range sectionLineRe.FindAllStringIndex(text, -1) {
		structure.Sections = append(structure.Sections, models.StructureMarker{
			Text:     strings.TrimSpace(text[loc[0]:loc[1]]),
			Position: loc[0],
		})
	}

	for _, loc := range listItemLineRe.FindAllStringIndex(text, -1) {
		structure.ListItems = append(structure.ListItems, models.StructureMarker{
			Text:     strings.TrimSpace(text[loc[0]:loc[1]]),
			Position: loc[0],
		})
	}

	return structure
}
