// internal/models/profile.go
package models

import (
	"strings"
	"time"
)

// WritingProfile 写作风格档案：若干风格样本加自由文本要求
// 以 {id}.json 形式落盘，更新时整体替换 samples/requirements
type WritingProfile struct {
	ID           string          `json:"profileId"`
	Samples      []WritingSample `json:"samples"`
	Requirements string          `json:"requirements"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

// WritingSample 单条写作样本
// Ordinal 是最近一次写入时的1-based位置，WordCount 每次写入时由 Text 重新计算
type WritingSample struct {
	Ordinal   int    `json:"id"`
	Text      string `json:"text"`
	WordCount int    `json:"wordCount"`
}

// SampleInput 调用方提交的样本输入
type SampleInput struct {
	Text string `json:"text"`
}

// BuildSamples 把样本输入转换为带序号和词数的存储形式
func BuildSamples(inputs []SampleInput) []WritingSample {
	samples := make([]WritingSample, 0, len(inputs))
	for i, input := range inputs {
		samples = append(samples, WritingSample{
			Ordinal:   i + 1,
			Text:      input.Text,
			WordCount: CountWords(input.Text),
		})
	}
	return samples
}

// CountWords 按空白分词统计词数
func CountWords(text string) int {
	return len(strings.Fields(text))
}
