// internal/services/content_service.go
package services

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// ContentService 课程素材存取
// 每条素材是一个 {id}.txt 纯文本文件，创建后不可变，不跨请求合并
type ContentService struct {
	store storage.Store
}

// NewContentService 创建素材服务
func NewContentService(store storage.Store) *ContentService {
	return &ContentService{store: store}
}

func contentKey(id string) string {
	return id + ".txt"
}

// Create 以新生成的ID保存素材文本，原样落盘不做规范化
func (s *ContentService) Create(text string) (*models.ContentRecord, error) {
	if text == "" {
		return nil, apperrors.NewValidationError("素材内容不能为空", nil)
	}

	record := &models.ContentRecord{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.store.Put(storage.BucketContent, contentKey(record.ID), []byte(text)); err != nil {
		return nil, apperrors.NewProcessingError("保存素材失败", err)
	}

	utils.GetLogger().Info("素材已保存", map[string]interface{}{
		"content_id": record.ID,
		"word_count": models.CountWords(text),
	})

	return record, nil
}

// Get 按ID读取素材，不存在返回 NotFound
func (s *ContentService) Get(id string) (*models.ContentRecord, error) {
	if !s.store.Exists(storage.BucketContent, contentKey(id)) {
		return nil, apperrors.NewNotFoundError("素材不存在", nil)
	}

	data, err := s.store.Get(storage.BucketContent, contentKey(id))
	if err != nil {
		return nil, apperrors.NewProcessingError("读取素材失败", err)
	}

	return &models.ContentRecord{
		ID:   id,
		Text: string(data),
	}, nil
}
