// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TKHatton/adaptive-curriculum-engine/internal/config"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/services"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// Handler 处理API请求
type Handler struct {
	ContentService  *services.ContentService  // 素材服务
	DocumentService *services.DocumentService // 文档提取服务
	ProfileService  *services.ProfileService  // 写作档案服务
	ScriptService   *services.ScriptService   // 讲稿服务
	SlidesService   *services.SlidesService   // 幻灯片服务
	ExportService   *services.ExportService   // 导出服务
	Config          *config.Config            // 上传限制等策略配置
	Response        *ResponseHelper           // 响应助手
}

// NewHandler 创建API处理器
func NewHandler(
	contentSvc *services.ContentService,
	documentSvc *services.DocumentService,
	profileSvc *services.ProfileService,
	scriptSvc *services.ScriptService,
	slidesSvc *services.SlidesService,
	exportSvc *services.ExportService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		ContentService:  contentSvc,
		DocumentService: documentSvc,
		ProfileService:  profileSvc,
		ScriptService:   scriptSvc,
		SlidesService:   slidesSvc,
		ExportService:   exportSvc,
		Config:          cfg,
		Response:        NewResponseHelper(),
	}
}

// ProcessContentRequest 文本素材摄取的请求结构
type ProcessContentRequest struct {
	TextContent string `json:"textContent"` // 素材正文
}

// SaveSamplesRequest 保存写作样本的请求结构
type SaveSamplesRequest struct {
	Samples      []models.SampleInput `json:"samples"`      // 写作样本列表
	Requirements string               `json:"requirements"` // 风格要求说明
}

// UpdateProfileRequest 更新写作档案的请求结构
// 指针字段区分"未提供"和"提供空值"
type UpdateProfileRequest struct {
	Samples      *[]models.SampleInput `json:"samples"`
	Requirements *string               `json:"requirements"`
}

// GenerateScriptRequest 生成讲稿的请求结构
// Options 先以原始JSON接收，未识别的键随制品原样存档
type GenerateScriptRequest struct {
	ContentID string          `json:"contentId"` // 素材ID
	ProfileID string          `json:"profileId"` // 写作档案ID（可选）
	Options   json.RawMessage `json:"options"`   // 生成选项
}

// UpdateScriptRequest 更新讲稿内容的请求结构
type UpdateScriptRequest struct {
	Content string `json:"content"`
}

// GenerateSlidesRequest 生成幻灯片的请求结构
// contentId和scriptId二选一
type GenerateSlidesRequest struct {
	ContentID string              `json:"contentId"`
	ScriptID  string              `json:"scriptId"`
	Options   models.SlideOptions `json:"options"`
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Server is running",
	})
}

// ProcessContent 摄取文本素材
// 原文按原样落盘，不做任何规范化
func (h *Handler) ProcessContent(c *gin.Context) {
	var req ProcessContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式")
		return
	}

	record, err := h.ContentService.Create(req.TextContent)
	if err != nil {
		h.Response.FromAppError(c, "content", err)
		return
	}

	structure := h.DocumentService.AnalyzeStructure(record.Text)

	h.Response.Success(c, gin.H{
		"message":   "Content processed successfully",
		"contentId": record.ID,
		"preview":   contentPreview(record.Text),
		"wordCount": models.CountWords(record.Text),
		"structure": structure,
	})
}

// contentPreview 截取素材开头作为预览
func contentPreview(text string) string {
	const previewLen = 200
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "..."
}

// UploadContent 上传文档文件并提取文本
// 每个文件独立走提取、清洗、落盘；超出大小限制返回413
func (h *Handler) UploadContent(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.Response.BadRequest(c, "无效的multipart请求")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.Response.BadRequest(c, "请至少上传一个文件")
		return
	}
	if len(files) > h.Config.MaxUploadCount {
		h.Response.BadRequest(c, fmt.Sprintf("单次最多上传%d个文件", h.Config.MaxUploadCount))
		return
	}

	results := make([]gin.H, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > h.Config.MaxDocumentUploadBytes {
			h.Response.PayloadTooLarge(c, fmt.Sprintf("文件 %s 超出大小限制", fileHeader.Filename))
			return
		}

		mimeType := normalizeMimeType(fileHeader.Header.Get("Content-Type"))

		file, err := fileHeader.Open()
		if err != nil {
			h.Response.Error(c, http.StatusBadRequest, ErrorFileUploadFailed, fmt.Sprintf("无法读取文件 %s", fileHeader.Filename))
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.Response.Error(c, http.StatusBadRequest, ErrorFileUploadFailed, fmt.Sprintf("无法读取文件 %s", fileHeader.Filename))
			return
		}

		text, err := h.DocumentService.ExtractText(data, mimeType)
		if err != nil {
			h.Response.FromAppError(c, "content", err)
			return
		}

		// 上传路径统一做文本清洗
		text = h.DocumentService.CleanText(text)

		record, err := h.ContentService.Create(text)
		if err != nil {
			h.Response.FromAppError(c, "content", err)
			return
		}

		utils.GetLogger().Info("文档已摄取", map[string]interface{}{
			"content_id": record.ID,
			"filename":   fileHeader.Filename,
			"mime_type":  mimeType,
			"bytes":      fileHeader.Size,
		})

		results = append(results, gin.H{
			"contentId": record.ID,
			"filename":  fileHeader.Filename,
			"wordCount": models.CountWords(record.Text),
		})
	}

	h.Response.Success(c, gin.H{
		"message": "Files processed successfully",
		"files":   results,
	})
}

// normalizeMimeType 去掉Content-Type中的参数部分
func normalizeMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.TrimSpace(contentType)
	}
	return mimeType
}

// GetContent 获取素材正文
func (h *Handler) GetContent(c *gin.Context) {
	record, err := h.ContentService.Get(c.Param("contentId"))
	if err != nil {
		h.Response.FromAppError(c, "content", err)
		return
	}

	h.Response.Success(c, gin.H{
		"content": record.Text,
	})
}

// SaveWritingSamples 保存写作样本，创建新的写作档案
func (h *Handler) SaveWritingSamples(c *gin.Context) {
	var req SaveSamplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式")
		return
	}

	profile, err := h.ProfileService.Create(req.Samples, req.Requirements)
	if err != nil {
		h.Response.FromAppError(c, "profile", err)
		return
	}

	h.Response.Success(c, gin.H{
		"message":     "Writing samples saved successfully",
		"profileId":   profile.ID,
		"sampleCount": len(profile.Samples),
	})
}

// GetWritingProfile 获取写作档案
// 返回完整档案JSON，与落盘格式一致
func (h *Handler) GetWritingProfile(c *gin.Context) {
	profile, err := h.ProfileService.Get(c.Param("profileId"))
	if err != nil {
		h.Response.FromAppError(c, "profile", err)
		return
	}

	h.Response.Success(c, profile)
}

// UpdateWritingProfile 更新写作档案
func (h *Handler) UpdateWritingProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式")
		return
	}

	profile, err := h.ProfileService.Update(c.Param("profileId"), req.Samples, req.Requirements)
	if err != nil {
		h.Response.FromAppError(c, "profile", err)
		return
	}

	h.Response.Success(c, gin.H{
		"message":     "Writing profile updated successfully",
		"profileId":   profile.ID,
		"sampleCount": len(profile.Samples),
	})
}

// GenerateScript 生成讲稿
func (h *Handler) GenerateScript(c *gin.Context) {
	var req GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式")
		return
	}

	var opts models.ScriptOptions
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			h.Response.BadRequest(c, "无效的options格式")
			return
		}
	}

	artifact, err := h.ScriptService.Generate(c.Request.Context(), req.ContentID, req.ProfileID, opts, req.Options)
	if err != nil {
		h.Response.FromAppError(c, "content", err)
		return
	}

	h.Response.Success(c, gin.H{
		"message":  "Script generated successfully",
		"scriptId": artifact.ID,
		"script":   artifact.Content,
	})
}

// UpdateScript 更新讲稿内容
func (h *Handler) UpdateScript(c *gin.Context) {
	var req UpdateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式")
		return
	}

	artifact, err := h.ScriptService.Update(c.Param("scriptId"), req.Content)
	if err != nil {
		h.Response.FromAppError(c, "script", err)
		return
	}

	h.Response.Success(c, gin.H{
		"message":  "Script updated successfully",
		"scriptId": artifact.ID,
	})
}

// ScriptPDF 渲染讲稿PDF并下载
func (h *Handler) ScriptPDF(c *gin.Context) {
	scriptID := c.Param("scriptId")

	artifact, err := h.ScriptService.Get(scriptID)
	if err != nil {
		h.Response.FromAppError(c, "script", err)
		return
	}

	pdfData, err := h.ExportService.RenderScriptPDF(artifact)
	if err != nil {
		h.Response.FromAppError(c, "script", err)
		return
	}

	h.Response.FileDownload(c, pdfData, fmt.Sprintf("script-%s.pdf", scriptID), "application/pdf")
}

// GenerateSlides 生成幻灯片
func (h *Handler) GenerateSlides(c *gin.Context) {
	var req GenerateSlidesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式")
		return
	}

	artifact, err := h.SlidesService.Generate(c.Request.Context(), req.ContentID, req.ScriptID, req.Options)
	if err != nil {
		// 404错误代码按请求中提供的来源细化
		resource := "content"
		if req.ScriptID != "" {
			resource = "script"
		}
		h.Response.FromAppError(c, resource, err)
		return
	}

	h.Response.Success(c, gin.H{
		"message":  "Slides generated successfully",
		"slidesId": artifact.ID,
		"slides":   artifact.Slides,
	})
}

// SlidesPPTX 渲染幻灯片PPTX并下载
func (h *Handler) SlidesPPTX(c *gin.Context) {
	slidesID := c.Param("slidesId")

	artifact, err := h.SlidesService.Get(slidesID)
	if err != nil {
		h.Response.FromAppError(c, "slides", err)
		return
	}

	pptxData, err := h.ExportService.RenderSlidesPPTX(artifact.Slides)
	if err != nil {
		h.Response.FromAppError(c, "slides", err)
		return
	}

	h.Response.FileDownload(c, pptxData,
		fmt.Sprintf("presentation-%s.pptx", slidesID),
		"application/vnd.openxmlformats-officedocument.presentationml.presentation")
}
