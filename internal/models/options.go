// internal/models/options.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// 讲稿长度档位，映射到目标时长
const (
	ScriptLengthShort  = "short"  // 10-15 min
	ScriptLengthMedium = "medium" // 20-30 min
	ScriptLengthLong   = "long"   // 45+ min
)

// 幻灯片内容密度档位，映射到每页要点数
const (
	DensityLight    = "light"    // 1-3 points
	DensityBalanced = "balanced" // 3-5 points
	DensityDense    = "dense"    // 5-7 points
)

// ScriptOptions 讲稿生成选项
// 每个字段缺省时在 Normalize 中补默认值：
//
//	Length     "medium"
//	Style      "conversational"
//	Elements   introduction/transitions/examples/questions/summary 全为 true
//	Techniques storytelling/analogies/repetition true, demonstrations false
//	Pacing     "moderate"
type ScriptOptions struct {
	Length     string          `json:"length,omitempty"`
	Style      string          `json:"style,omitempty"`
	Elements   map[string]bool `json:"elements,omitempty"`
	Techniques map[string]bool `json:"techniques,omitempty"`
	Pacing     string          `json:"pacing,omitempty"`
}

// 元素和技巧的固定渲染顺序，保证同样输入生成同样的提示词
var (
	ScriptElementOrder   = []string{"introduction", "transitions", "examples", "questions", "summary"}
	ScriptTechniqueOrder = []string{"storytelling", "analogies", "repetition", "demonstrations"}
)

// Normalize 在入口处一次性补全默认值，返回新副本，不修改原值
func (o ScriptOptions) Normalize() ScriptOptions {
	normalized := o

	if normalized.Length == "" {
		normalized.Length = ScriptLengthMedium
	}
	if normalized.Style == "" {
		normalized.Style = "conversational"
	}
	if normalized.Pacing == "" {
		normalized.Pacing = "moderate"
	}

	if normalized.Elements == nil {
		normalized.Elements = map[string]bool{
			"introduction": true,
			"transitions":  true,
			"examples":     true,
			"questions":    true,
			"summary":      true,
		}
	}

	if normalized.Techniques == nil {
		normalized.Techniques = map[string]bool{
			"storytelling":   true,
			"analogies":      true,
			"repetition":     true,
			"demonstrations": false,
		}
	}

	return normalized
}

// Validate 校验档位取值
func (o ScriptOptions) Validate() error {
	switch o.Length {
	case "", ScriptLengthShort, ScriptLengthMedium, ScriptLengthLong:
	default:
		return fmt.Errorf("无效的length取值: %q", o.Length)
	}
	return nil
}

// SlideCount "auto" 或显式页数，JSON中可以是字符串或数字
type SlideCount string

// SlideCountAuto 让模型自行决定页数
const SlideCountAuto SlideCount = "auto"

func (c *SlideCount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = SlideCount(s)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("slideCount必须是字符串或整数: %w", err)
	}
	*c = SlideCount(fmt.Sprintf("%d", n))
	return nil
}

// SlideOptions 幻灯片生成选项
// 默认值：SlideCount "auto"、ContentDensity "balanced"、
// VisualStyle "minimal"、IncludeNotes true
type SlideOptions struct {
	SlideCount     SlideCount `json:"slideCount,omitempty"`
	ContentDensity string     `json:"contentDensity,omitempty"`
	VisualStyle    string     `json:"visualStyle,omitempty"`
	IncludeNotes   *bool      `json:"includeNotes,omitempty"`
}

// Normalize 补全默认值，返回新副本
func (o SlideOptions) Normalize() SlideOptions {
	normalized := o

	if normalized.SlideCount == "" {
		normalized.SlideCount = SlideCountAuto
	}
	if normalized.ContentDensity == "" {
		normalized.ContentDensity = DensityBalanced
	}
	if normalized.VisualStyle == "" {
		normalized.VisualStyle = "minimal"
	}
	if normalized.IncludeNotes == nil {
		includeNotes := true
		normalized.IncludeNotes = &includeNotes
	}

	return normalized
}

// Validate 校验档位取值
func (o SlideOptions) Validate() error {
	switch o.ContentDensity {
	case "", DensityLight, DensityBalanced, DensityDense:
	default:
		return fmt.Errorf("无效的contentDensity取值: %q", o.ContentDensity)
	}
	return nil
}
