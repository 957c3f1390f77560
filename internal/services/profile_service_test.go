// internal/services/profile_service_test.go
package services

import (
	"testing"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/storage"
)

// TestProfileCreateAndGet 测试档案创建后读取，样本带序号和词数
func TestProfileCreateAndGet(t *testing.T) {
	svc := NewProfileService(storage.NewMemoryStore())

	profile, err := svc.Create([]models.SampleInput{
		{Text: "I like to open with a story."},
		{Text: "Short and punchy."},
	}, "Keep slides minimal")
	if err != nil {
		t.Fatalf("创建档案失败: %v", err)
	}

	got, err := svc.Get(profile.ID)
	if err != nil {
		t.Fatalf("读取档案失败: %v", err)
	}

	if len(got.Samples) != 2 {
		t.Fatalf("期望2条样本, got %d", len(got.Samples))
	}
	if got.Samples[0].Ordinal != 1 || got.Samples[1].Ordinal != 2 {
		t.Error("样本序号应从1开始")
	}
	if got.Samples[0].WordCount != 7 {
		t.Errorf("词数计算错误: got %d, want 7", got.Samples[0].WordCount)
	}
	if got.Requirements != "Keep slides minimal" {
		t.Errorf("要求字段不一致: %q", got.Requirements)
	}
	if got.UpdatedAt != nil {
		t.Error("新建档案不应有updatedAt")
	}
}

// TestProfileCreateValidation 测试样本校验
func TestProfileCreateValidation(t *testing.T) {
	svc := NewProfileService(storage.NewMemoryStore())

	if _, err := svc.Create(nil, ""); !apperrors.IsValidationError(err) {
		t.Errorf("空样本列表应报校验错误: %v", err)
	}

	_, err := svc.Create([]models.SampleInput{{Text: "ok"}, {Text: "   "}}, "")
	if !apperrors.IsValidationError(err) {
		t.Errorf("空白样本应报校验错误: %v", err)
	}
}

// TestProfileUpdateRecomputesWordCounts 测试更新样本时词数重新计算
func TestProfileUpdateRecomputesWordCounts(t *testing.T) {
	svc := NewProfileService(storage.NewMemoryStore())

	profile, err := svc.Create([]models.SampleInput{{Text: "one two"}}, "req")
	if err != nil {
		t.Fatalf("创建档案失败: %v", err)
	}

	newSamples := []models.SampleInput{{Text: "one two three four five"}}
	updated, err := svc.Update(profile.ID, &newSamples, nil)
	if err != nil {
		t.Fatalf("更新档案失败: %v", err)
	}

	if updated.Samples[0].WordCount != 5 {
		t.Errorf("更新后词数应重新计算: got %d, want 5", updated.Samples[0].WordCount)
	}
	if updated.Requirements != "req" {
		t.Errorf("未提供的字段不应改变: %q", updated.Requirements)
	}
	if updated.UpdatedAt == nil {
		t.Error("更新后应设置updatedAt")
	}
}

// TestProfileUpdateRequirementsOnly 测试只更新要求字段时样本不变
func TestProfileUpdateRequirementsOnly(t *testing.T) {
	svc := NewProfileService(storage.NewMemoryStore())

	profile, err := svc.Create([]models.SampleInput{{Text: "keep me"}}, "old")
	if err != nil {
		t.Fatalf("创建档案失败: %v", err)
	}

	newReq := "new requirements"
	updated, err := svc.Update(profile.ID, nil, &newReq)
	if err != nil {
		t.Fatalf("更新档案失败: %v", err)
	}

	if updated.Requirements != "new requirements" {
		t.Errorf("要求字段未更新: %q", updated.Requirements)
	}
	if len(updated.Samples) != 1 || updated.Samples[0].Text != "keep me" {
		t.Error("未提供samples时样本不应改变")
	}
}

// TestProfileGetMissing 测试不存在的档案ID
func TestProfileGetMissing(t *testing.T) {
	svc := NewProfileService(storage.NewMemoryStore())

	if _, err := svc.Get("missing"); !apperrors.IsNotFoundError(err) {
		t.Errorf("不存在的ID应返回NotFound: %v", err)
	}
	if _, err := svc.Update("missing", nil, nil); !apperrors.IsNotFoundError(err) {
		t.Errorf("更新不存在的档案应返回NotFound: %v", err)
	}
}

// TestProfileCorruptRecord 测试落盘JSON损坏时报CorruptRecord
func TestProfileCorruptRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewProfileService(store)

	if err := store.Put(storage.BucketProfiles, "bad.json", []byte("{not json")); err != nil {
		t.Fatalf("写入损坏数据失败: %v", err)
	}

	if _, err := svc.Get("bad"); !apperrors.IsCorruptRecordError(err) {
		t.Errorf("损坏的JSON应报CorruptRecord: %v", err)
	}
}
