// internal/services/script_service.go
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

// ScriptService 讲稿制品的生成与存取
type ScriptService struct {
	store      storage.Store
	contentSvc *ContentService
	profileSvc *ProfileService
	llmSvc     *LLMService
}

// NewScriptService 创建讲稿服务
func NewScriptService(store storage.Store, contentSvc *ContentService, profileSvc *ProfileService, llmSvc *LLMService) *ScriptService {
	return &ScriptService{
		store:      store,
		contentSvc: contentSvc,
		profileSvc: profileSvc,
		llmSvc:     llmSvc,
	}
}

func scriptKey(id string) string {
	return id + ".json"
}

// Generate 根据素材和可选的写作档案生成讲稿并持久化
// rawOpts 是请求中未经解析的options负载，原样随制品存档，可以为nil
func (s *ScriptService) Generate(ctx context.Context, contentID, profileID string, opts models.ScriptOptions, rawOpts json.RawMessage) (*models.ScriptArtifact, error) {
	if err := opts.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	content, err := s.contentSvc.Get(contentID)
	if err != nil {
		return nil, err
	}

	// 写作档案是可选引用，悬空引用不阻断生成
	var profile *models.WritingProfile
	if profileID != "" {
		profile, err = s.profileSvc.Get(profileID)
		if err != nil {
			if !apperrors.IsNotFoundError(err) {
				return nil, err
			}
			utils.GetLogger().Warn("写作档案不存在，按无档案生成", map[string]interface{}{
				"profile_id": profileID,
			})
			profile = nil
		}
	}

	prompt := BuildScriptPrompt(content.Text, profile, opts)

	scriptContent, err := s.llmSvc.GenerateScript(ctx, prompt)
	if err != nil {
		return nil, err
	}

	artifact := &models.ScriptArtifact{
		ID:         uuid.NewString(),
		ContentID:  contentID,
		ProfileID:  profileID,
		Options:    opts,
		RawOptions: rawOpts,
		Content:    scriptContent,
		CreatedAt:  time.Now(),
	}

	if err := s.save(artifact); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("讲稿已生成", map[string]interface{}{
		"script_id":  artifact.ID,
		"content_id": contentID,
	})

	return artifact, nil
}

// Get 按ID读取讲稿制品
func (s *ScriptService) Get(id string) (*models.ScriptArtifact, error) {
	if !s.store.Exists(storage.BucketScripts, scriptKey(id)) {
		return nil, apperrors.NewNotFoundError("讲稿不存在", nil)
	}

	data, err := s.store.Get(storage.BucketScripts, scriptKey(id))
	if err != nil {
		return nil, apperrors.NewProcessingError("读取讲稿失败", err)
	}

	var artifact models.ScriptArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, apperrors.NewCorruptRecordError("讲稿数据损坏", err)
	}

	return &artifact, nil
}

// Update 整体替换讲稿正文并刷新 updatedAt
// 制品由生成创建一次，之后可被编辑任意次，系统从不删除
func (s *ScriptService) Update(id string, content string) (*models.ScriptArtifact, error) {
	artifact, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	artifact.Content = content
	now := time.Now()
	artifact.UpdatedAt = &now

	if err := s.save(artifact); err != nil {
		return nil, err
	}

	return artifact, nil
}

func (s *ScriptService) save(artifact *models.ScriptArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return apperrors.NewProcessingError("序列化讲稿失败", err)
	}

	if err := s.store.Put(storage.BucketScripts, scriptKey(artifact.ID), data); err != nil {
		return apperrors.NewProcessingError("保存讲稿失败", err)
	}

	return nil
}
