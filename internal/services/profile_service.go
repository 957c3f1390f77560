// internal/services/profile_service.go
package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// ProfileService 写作风格档案存取
// 档案以 {id}.json 落盘，更新时整体替换字段，不做深合并
type ProfileService struct {
	store storage.Store
}

// NewProfileService 创建档案服务
func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

func profileKey(id string) string {
	return id + ".json"
}

// validateSamples 每条样本必须有非空文本
func validateSamples(inputs []models.SampleInput) error {
	if len(inputs) == 0 {
		return apperrors.NewValidationError("请至少提供一条写作样本", nil)
	}
	for _, input := range inputs {
		if strings.TrimSpace(input.Text) == "" {
			return apperrors.NewValidationError("每条样本必须包含非空的text字段", nil)
		}
	}
	return nil
}

// Create 保存写作样本集和展示要求，返回新档案
func (s *ProfileService) Create(inputs []models.SampleInput, requirements string) (*models.WritingProfile, error) {
	if err := validateSamples(inputs); err != nil {
		return nil, err
	}

	profile := &models.WritingProfile{
		ID:           uuid.NewString(),
		Samples:      models.BuildSamples(inputs),
		Requirements: requirements,
		CreatedAt:    time.Now(),
	}

	if err := s.save(profile); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("写作档案已保存", map[string]interface{}{
		"profile_id":   profile.ID,
		"sample_count": len(profile.Samples),
	})

	return profile, nil
}

// Get 按ID读取档案
// 不存在返回 NotFound；文件内容无法解析返回 CorruptRecord
func (s *ProfileService) Get(id string) (*models.WritingProfile, error) {
	if !s.store.Exists(storage.BucketProfiles, profileKey(id)) {
		return nil, apperrors.NewNotFoundError("写作档案不存在", nil)
	}

	data, err := s.store.Get(storage.BucketProfiles, profileKey(id))
	if err != nil {
		return nil, apperrors.NewProcessingError("读取写作档案失败", err)
	}

	var profile models.WritingProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.NewCorruptRecordError("写作档案数据损坏", err)
	}

	return &profile, nil
}

// Update 字段级替换：samples/requirements 提供哪个替换哪个
// 样本词数在每次写入时重新计算，并刷新 updatedAt
func (s *ProfileService) Update(id string, inputs *[]models.SampleInput, requirements *string) (*models.WritingProfile, error) {
	profile, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if inputs != nil {
		if err := validateSamples(*inputs); err != nil {
			return nil, err
		}
		profile.Samples = models.BuildSamples(*inputs)
	}

	if requirements != nil {
		profile.Requirements = *requirements
	}

	now := time.Now()
	profile.UpdatedAt = &now

	if err := s.save(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *ProfileService) save(profile *models.WritingProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return apperrors.NewProcessingError("序列化写作档案失败", err)
	}

	if err := s.store.Put(storage.BucketProfiles, profileKey(profile.ID), data); err != nil {
		return apperrors.NewProcessingError("保存写作档案失败", err)
	}

	return nil
}
