// internal/api/router.go
package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/TKHatton/adaptive-curriculum-engine/internal/config"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/di"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/services"
)

// SetupRouter 配置HTTP路由
// 只从容器获取服务，不创建新实例
func SetupRouter() (*gin.Engine, error) {
	container := di.GetContainer()

	cfg, ok := container.Get("config").(*config.Config)
	if !ok {
		return nil, fmt.Errorf("配置未正确初始化")
	}

	contentService, ok := container.Get("content").(*services.ContentService)
	if !ok {
		return nil, fmt.Errorf("素材服务未正确初始化")
	}

	documentService, ok := container.Get("document").(*services.DocumentService)
	if !ok {
		return nil, fmt.Errorf("文档服务未正确初始化")
	}

	profileService, ok := container.Get("profile").(*services.ProfileService)
	if !ok {
		return nil, fmt.Errorf("写作档案服务未正确初始化")
	}

	scriptService, ok := container.Get("script").(*services.ScriptService)
	if !ok {
		return nil, fmt.Errorf("讲稿服务未正确初始化")
	}

	slidesService, ok := container.Get("slides").(*services.SlidesService)
	if !ok {
		return nil, fmt.Errorf("幻灯片服务未正确初始化")
	}

	exportService, ok := container.Get("export").(*services.ExportService)
	if !ok {
		return nil, fmt.Errorf("导出服务未正确初始化")
	}

	handler := NewHandler(
		contentService,
		documentService,
		profileService,
		scriptService,
		slidesService,
		exportService,
		cfg,
	)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 启用CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 请求体上限覆盖单次多文件上传
	r.MaxMultipartMemory = cfg.MaxDocumentUploadBytes

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", handler.HealthCheck)

		// 素材摄取
		apiGroup.POST("/content/process", handler.ProcessContent)
		apiGroup.POST("/content/upload", handler.UploadContent)
		apiGroup.GET("/content/:contentId", handler.GetContent)

		// 写作档案
		apiGroup.POST("/writing/samples", handler.SaveWritingSamples)
		apiGroup.GET("/writing/:profileId", handler.GetWritingProfile)
		apiGroup.PUT("/writing/:profileId", handler.UpdateWritingProfile)

		// 讲稿生成与导出
		apiGroup.POST("/generate/script", handler.GenerateScript)
		apiGroup.PUT("/script/:scriptId", handler.UpdateScript)
		apiGroup.GET("/script/:scriptId/pdf", handler.ScriptPDF)

		// 幻灯片生成与导出
		apiGroup.POST("/generate/slides", handler.GenerateSlides)
		apiGroup.GET("/slides/:slidesId/pptx", handler.SlidesPPTX)
	}

	return r, nil
}
