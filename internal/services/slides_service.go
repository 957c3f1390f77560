// internal/services/slides_service.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// SlidesService 幻灯片制品的生成与存取
type SlidesService struct {
	store      storage.Store
	contentSvc *ContentService
	scriptSvc  *ScriptService
	llmSvc     *LLMService
}

// NewSlidesService 创建幻灯片服务
func NewSlidesService(store storage.Store, contentSvc *ContentService, scriptSvc *ScriptService, llmSvc *LLMService) *SlidesService {
	return &SlidesService{
		store:      store,
		contentSvc: contentSvc,
		scriptSvc:  scriptSvc,
		llmSvc:     llmSvc,
	}
}

func slidesKey(id string) string {
	return id + ".json"
}

// Generate 从素材或讲稿生成幻灯片
// 必须且只能提供 contentID/scriptID 其中之一：
// 两个都给由这里显式拒绝，两个都不给按 MissingSource 处理
func (s *SlidesService) Generate(ctx context.Context, contentID, scriptID string, opts models.SlideOptions) (*models.SlidesArtifact, error) {
	if err := opts.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if contentID != "" && scriptID != "" {
		return nil, apperrors.NewValidationError("contentId和scriptId只能提供一个", nil)
	}

	var sourceText, sourceKind string

	switch {
	case scriptID != "":
		script, err := s.scriptSvc.Get(scriptID)
		if err != nil {
			return nil, err
		}
		sourceText = script.Content
		sourceKind = "script"
	case contentID != "":
		content, err := s.contentSvc.Get(contentID)
		if err != nil {
			return nil, err
		}
		sourceText = content.Text
		sourceKind = "content"
	default:
		return nil, apperrors.NewMissingSourceError("请提供contentId或scriptId", nil)
	}

	prompt := BuildSlidesPrompt(sourceText, sourceKind, opts)

	slides, err := s.llmSvc.GenerateSlides(ctx, prompt)
	if err != nil {
		return nil, err
	}

	artifact := &models.SlidesArtifact{
		ID:        uuid.NewString(),
		ContentID: contentID,
		ScriptID:  scriptID,
		Options:   opts,
		Slides:    slides,
		CreatedAt: time.Now(),
	}

	if err := s.save(artifact); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("幻灯片已生成", map[string]interface{}{
		"slides_id":   artifact.ID,
		"source_kind": sourceKind,
		"slide_count": len(slides),
	})

	return artifact, nil
}

// Get 按ID读取幻灯片制品
func (s *SlidesService) Get(id string) (*models.SlidesArtifact, error) {
	if !s.store.Exists(storage.BucketSlides, slidesKey(id)) {
		return nil, apperrors.NewNotFoundError("幻灯片不存在", nil)
	}

	data, err := s.store.Get(storage.BucketSlides, slidesKey(id))
	if err != nil {
		return nil, apperrors.NewProcessingError("读取幻灯片失败", err)
	}

	var artifact models.SlidesArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, apperrors.NewCorruptRecordError("幻灯片数据损坏", err)
	}

	return &artifact, nil
}

func (s *SlidesService) save(artifact *models.SlidesArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return apperrors.NewProcessingError("序列化幻灯片失败", err)
	}

	if err := s.store.Put(storage.BucketSlides, slidesKey(artifact.ID), data); err != nil {
		return apperrors.NewProcessingError("保存幻灯片失败", err)
	}

	return nil
}
