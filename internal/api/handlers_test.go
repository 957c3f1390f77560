// internal/api/handlers_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TKHatton/adaptive-curriculum-engine/internal/config"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/di"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/llm"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/services"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
)

// stubProvider 固定回复的LLM提供者
type stubProvider struct {
	reply string
}

func (p *stubProvider) Initialize(config map[string]string) error { return nil }
func (p *stubProvider) GetName() string                           { return "stub" }
func (p *stubProvider) GetSupportedModels() []string              { return []string{"stub-model"} }

func (p *stubProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Text: p.reply, ProviderName: "stub"}, nil
}

// setupTestRouter 用内存存储和固定回复的提供者搭建完整路由
func setupTestRouter(t *testing.T, llmReply string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container := di.GetContainer()
	container.Clear()

	cfg := &config.Config{
		Port:                   "0",
		DebugMode:              true,
		GenerationTimeout:      5 * time.Second,
		MaxDocumentUploadBytes: 15 * 1024 * 1024,
		MaxUploadCount:         5,
	}
	container.Register("config", cfg)

	store := storage.NewMemoryStore()
	container.Register("store", store)

	llmService := services.NewLLMServiceWithProvider(&stubProvider{reply: llmReply}, cfg.GenerationTimeout)
	container.Register("llm", llmService)

	container.Register("document", services.NewDocumentService())

	contentService := services.NewContentService(store)
	container.Register("content", contentService)

	profileService := services.NewProfileService(store)
	container.Register("profile", profileService)

	scriptService := services.NewScriptService(store, contentService, profileService, llmService)
	container.Register("script", scriptService)

	container.Register("slides", services.NewSlidesService(store, contentService, scriptService, llmService))
	container.Register("export", services.NewExportService())

	router, err := SetupRouter()
	if err != nil {
		t.Fatalf("设置路由失败: %v", err)
	}
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法JSON: %v (%s)", err, w.Body.String())
	}
	return body
}

// TestHealthCheck 测试健康检查
func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t, "")

	w := doJSON(router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("status应为ok: %v", body)
	}
}

// TestProcessAndGetContent 测试文本摄取后按ID取回
func TestProcessAndGetContent(t *testing.T) {
	router := setupTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/api/content/process", gin.H{
		"textContent": "Chapter 1: Cells\n\n- membrane\n- nucleus",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	contentID, _ := body["contentId"].(string)
	if contentID == "" {
		t.Fatal("响应应包含contentId")
	}
	if body["wordCount"].(float64) <= 0 {
		t.Error("响应应包含词数")
	}
	if body["structure"] == nil {
		t.Error("响应应包含结构分析")
	}

	w = doJSON(router, http.MethodGet, "/api/content/"+contentID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d", w.Code)
	}
	got := decodeBody(t, w)
	if !strings.Contains(got["content"].(string), "Chapter 1: Cells") {
		t.Error("取回的素材内容不一致")
	}
}

// TestGetContentNotFound 测试未知素材ID返回404
func TestGetContentNotFound(t *testing.T) {
	router := setupTestRouter(t, "")

	w := doJSON(router, http.MethodGet, "/api/content/never-created", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != ErrorContentNotFound {
		t.Errorf("错误代码应为%s: %v", ErrorContentNotFound, body)
	}
}

// TestUploadPlainText 测试上传纯文本文件
func TestUploadPlainText(t *testing.T) {
	router := setupTestRouter(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="files"; filename="notes.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("构造multipart失败: %v", err)
	}
	part.Write([]byte("Some   spaced    lecture notes\r\n\r\n\r\n\r\nwith blank lines"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	files, _ := body["files"].([]interface{})
	if len(files) != 1 {
		t.Fatalf("期望1个摄取结果: %v", body)
	}
	entry := files[0].(map[string]interface{})
	if entry["contentId"] == "" || entry["filename"] != "notes.txt" {
		t.Errorf("摄取结果字段错误: %v", entry)
	}
}

// TestUploadUnsupportedType 测试不支持的文件类型返回400
func TestUploadUnsupportedType(t *testing.T) {
	router := setupTestRouter(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="files"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(header)
	part.Write([]byte("binary"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != ErrorUnsupportedFormat {
		t.Errorf("错误代码应为%s: %v", ErrorUnsupportedFormat, body)
	}
}

// TestWritingProfileFlow 测试写作档案的创建、读取和更新
func TestWritingProfileFlow(t *testing.T) {
	router := setupTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/api/writing/samples", gin.H{
		"samples":      []gin.H{{"text": "sample one"}, {"text": "sample two"}},
		"requirements": "energetic tone",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	profileID, _ := body["profileId"].(string)
	if profileID == "" || body["sampleCount"].(float64) != 2 {
		t.Fatalf("创建响应字段错误: %v", body)
	}

	w = doJSON(router, http.MethodGet, "/api/writing/"+profileID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d", w.Code)
	}
	profile := decodeBody(t, w)
	if profile["requirements"] != "energetic tone" {
		t.Errorf("档案要求字段错误: %v", profile)
	}

	w = doJSON(router, http.MethodPut, "/api/writing/"+profileID, gin.H{
		"samples": []gin.H{{"text": "only one now"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}
	if updated := decodeBody(t, w); updated["sampleCount"].(float64) != 1 {
		t.Errorf("更新后样本数错误: %v", updated)
	}
}

// TestSaveSamplesEmpty 测试空样本列表返回400
func TestSaveSamplesEmpty(t *testing.T) {
	router := setupTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/api/writing/samples", gin.H{"samples": []gin.H{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望400, got %d", w.Code)
	}
}

// TestGenerateScriptAndDownloadPDF 测试讲稿生成到PDF下载的完整链路
func TestGenerateScriptAndDownloadPDF(t *testing.T) {
	router := setupTestRouter(t, "[Introduction]\nWelcome to the lesson.")

	w := doJSON(router, http.MethodPost, "/api/content/process", gin.H{"textContent": "Material."})
	contentID := decodeBody(t, w)["contentId"].(string)

	w = doJSON(router, http.MethodPost, "/api/generate/script", gin.H{"contentId": contentID})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	scriptID, _ := body["scriptId"].(string)
	if scriptID == "" || !strings.Contains(body["script"].(string), "Welcome") {
		t.Fatalf("生成响应字段错误: %v", body)
	}

	// 更新讲稿
	w = doJSON(router, http.MethodPut, "/api/script/"+scriptID, gin.H{"content": "[Intro]\nEdited."})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}

	// 下载PDF
	w = doJSON(router, http.MethodGet, "/api/script/"+scriptID+"/pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type应为application/pdf: %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "script-"+scriptID+".pdf") {
		t.Errorf("附件文件名错误: %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("下载内容应为PDF")
	}
}

// TestGenerateSlidesAndDownloadPPTX 测试幻灯片生成到PPTX下载的完整链路
func TestGenerateSlidesAndDownloadPPTX(t *testing.T) {
	router := setupTestRouter(t, `[{"title": "Deck", "content": [{"type": "text", "text": "point"}], "speakerNotes": "note"}]`)

	w := doJSON(router, http.MethodPost, "/api/content/process", gin.H{"textContent": "Material."})
	contentID := decodeBody(t, w)["contentId"].(string)

	w = doJSON(router, http.MethodPost, "/api/generate/slides", gin.H{"contentId": contentID})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d: %s", w.Code, w.Body.String())
	}
	slidesID, _ := decodeBody(t, w)["slidesId"].(string)
	if slidesID == "" {
		t.Fatal("响应应包含slidesId")
	}

	w = doJSON(router, http.MethodGet, "/api/slides/"+slidesID+"/pptx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "presentationml") {
		t.Errorf("Content-Type应为PPTX类型: %q", ct)
	}
	// zip魔数
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("下载内容应为zip包")
	}
}

// TestGenerateSlidesMissingSource 测试缺少来源返回400
func TestGenerateSlidesMissingSource(t *testing.T) {
	router := setupTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/api/generate/slides", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望400, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["error"] != ErrorMissingSource {
		t.Errorf("错误代码应为%s: %v", ErrorMissingSource, body)
	}
}

// TestUploadOversizeFile 测试超出大小限制返回413
func TestUploadOversizeFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupTestRouter(t, "")

	// 收紧限制便于构造超限请求
	cfg := di.GetContainer().Get("config").(*config.Config)
	cfg.MaxDocumentUploadBytes = 16

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="files"; filename="big.txt"`)
	header.Set("Content-Type", "text/plain")
	part, _ := mw.CreatePart(header)
	part.Write(bytes.Repeat([]byte("a"), 64))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望413, got %d: %s", w.Code, w.Body.String())
	}
}
