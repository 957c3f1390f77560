// internal/models/content.go
package models

import (
	"time"
)

// ContentRecord 一次摄取的课程素材，创建后不可变
// 正文以 {id}.txt 纯文本形式落盘，元数据仅存在于内存表示中
type ContentRecord struct {
	ID        string    `json:"contentId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DocumentStructure 素材结构分析结果（标题/小节/列表项启发式）
type DocumentStructure struct {
	Title     string            `json:"title"`
	Sections  []StructureMarker `json:"sections"`
	ListItems []StructureMarker `json:"listItems"`
}

// StructureMarker 结构标记及其在原文中的位置
type StructureMarker struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
}
