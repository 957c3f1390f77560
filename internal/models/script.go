// internal/models/script.go
package models

import (
	"encoding/json"
	"time"
)

// ScriptArtifact 生成的讲稿制品
// ContentID/ProfileID 只是引用，不做级联删除；悬空引用在读取时表现为未找到
// RawOptions 保留请求里的原始options负载，未识别的键原样存档
type ScriptArtifact struct {
	ID         string          `json:"scriptId"`
	ContentID  string          `json:"contentId"`
	ProfileID  string          `json:"profileId,omitempty"`
	Options    ScriptOptions   `json:"options"`
	RawOptions json.RawMessage `json:"rawOptions,omitempty"`
	Content    string          `json:"content"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}
