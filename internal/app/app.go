// internal/app/app.go
package app

import (
	"fmt"
	"path/filepath"

	"github.com/TKHatton/adaptive-curriculum-engine/internal/config"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/di"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/services"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// InitServices 按依赖顺序初始化所有服务并注册到容器
// 路由层只从容器获取服务，不自行创建
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()

	container.Register("config", cfg)

	// 存储层：所有制品落在DataDir下的uploads目录
	fileStore, err := storage.NewFileStore(filepath.Join(cfg.DataDir, "uploads"))
	if err != nil {
		return fmt.Errorf("初始化文件存储失败: %w", err)
	}
	container.Register("store", fileStore)

	// LLM服务：未配置API密钥时保持未就绪状态，生成接口返回明确错误
	llmService, err := services.NewLLMService(cfg.LLMProvider, cfg.LLMConfig, cfg.GenerationTimeout)
	if err != nil {
		return fmt.Errorf("初始化LLM服务失败: %w", err)
	}
	container.Register("llm", llmService)

	documentService := services.NewDocumentService()
	container.Register("document", documentService)

	contentService := services.NewContentService(fileStore)
	container.Register("content", contentService)

	profileService := services.NewProfileService(fileStore)
	container.Register("profile", profileService)

	// 讲稿服务依赖素材和档案服务，必须后注册
	scriptService := services.NewScriptService(fileStore, contentService, profileService, llmService)
	container.Register("script", scriptService)

	slidesService := services.NewSlidesService(fileStore, contentService, scriptService, llmService)
	container.Register("slides", slidesService)

	container.Register("export", services.NewExportService())

	utils.GetLogger().Info("服务初始化完成", map[string]interface{}{
		"services": container.GetNames(),
		"provider": llmService.GetProviderName(),
		"ready":    llmService.IsReady(),
	})

	return nil
}
