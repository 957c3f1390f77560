// internal/models/slides.go
package models

import (
	"time"
)

// 内容块类型
const (
	BlockTypeText  = "text"
	BlockTypeImage = "image"
)

// SlidesArtifact 生成的幻灯片制品
// 创建时 ContentID/ScriptID 恰好记录其中一个来源
type SlidesArtifact struct {
	ID        string       `json:"slidesId"`
	ContentID string       `json:"contentId,omitempty"`
	ScriptID  string       `json:"scriptId,omitempty"`
	Options   SlideOptions `json:"options"`
	Slides    []Slide      `json:"slides"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Slide 单页幻灯片
type Slide struct {
	Title        string         `json:"title"`
	Content      []ContentBlock `json:"content"`
	SpeakerNotes string         `json:"speakerNotes,omitempty"`
}

// ContentBlock 幻灯片内容块，带类型标签的变体：
// {"type":"text","text":...} 或 {"type":"image","description":...}
type ContentBlock struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
}
