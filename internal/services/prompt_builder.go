// internal/services/prompt_builder.go
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
)

// 提示词构建：纯函数，无I/O，不修改输入
// 同样的 (content, profile, options) 必须产生字节相同的提示词

// 讲稿长度到目标时长的映射说明
const scriptLengthLegend = "(short: 10-15 min, medium: 20-30 min, long: 45+ min)"

// BuildScriptPrompt 渲染讲稿生成提示词
func BuildScriptPrompt(content string, profile *models.WritingProfile, opts models.ScriptOptions) string {
	opts = opts.Normalize()

	var sb strings.Builder

	sb.WriteString("Create a comprehensive instructor script based on this content:\n")
	sb.WriteString(content)
	sb.WriteString("\n\nThe script should:\n")
	fmt.Fprintf(&sb, "- Be %s length %s\n", opts.Length, scriptLengthLegend)
	fmt.Fprintf(&sb, "- Use a %s teaching style\n", opts.Style)
	fmt.Fprintf(&sb, "- Keep a %s pacing\n", opts.Pacing)

	// 写作样本逐条原样给出
	if profile != nil && len(profile.Samples) > 0 {
		sb.WriteString("\nMatch this writing style from these samples:\n")
		for _, sample := range profile.Samples {
			fmt.Fprintf(&sb, "SAMPLE: %s\n\n", sample.Text)
		}
	}

	if profile != nil && profile.Requirements != "" {
		fmt.Fprintf(&sb, "\nPresentation requirements: %s\n", profile.Requirements)
	}

	sb.WriteString("\nRequired Elements:\n")
	for _, element := range enabledKeys(opts.Elements, models.ScriptElementOrder) {
		fmt.Fprintf(&sb, "- %s\n", element)
	}

	sb.WriteString("\nTeaching Techniques to Include:\n")
	for _, technique := range enabledKeys(opts.Techniques, models.ScriptTechniqueOrder) {
		fmt.Fprintf(&sb, "- %s\n", technique)
	}

	// 固定的格式约定块
	sb.WriteString(`
The script should include:
1. Word-for-word teaching dialogue with natural language flow
2. [Pause points] for questions and reflection
3. {Key concepts} in brackets for emphasis
4. Transition phrases between sections
5. Interactive elements for engagement
6. Real-world examples and analogies
7. Summary statements and key takeaways

Ensure the script sounds natural, conversational, and matches the instructor's voice.
Make it comprehensive - better to have too much content than not enough.
`)

	return sb.String()
}

// BuildSlidesPrompt 渲染幻灯片生成提示词
// 固定的JSON数组格式说明让生成客户端可以确定性地解析回复
func BuildSlidesPrompt(content string, sourceKind string, opts models.SlideOptions) string {
	opts = opts.Normalize()

	slideCount := "appropriate number of"
	if opts.SlideCount != models.SlideCountAuto {
		slideCount = string(opts.SlideCount)
	}

	includeNotes := "No"
	if opts.IncludeNotes != nil && *opts.IncludeNotes {
		includeNotes = "Yes"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Create a comprehensive slide deck from this %s:\n", sourceKind)
	sb.WriteString(content)
	sb.WriteString("\n\nSlide Requirements:\n")
	fmt.Fprintf(&sb, "- Create %s slides\n", slideCount)
	fmt.Fprintf(&sb, "- Use %s content density (light: 1-3 points, balanced: 3-5 points, dense: 5-7 points)\n", opts.ContentDensity)
	fmt.Fprintf(&sb, "- Apply %s visual style\n", opts.VisualStyle)
	fmt.Fprintf(&sb, "- Include speaker notes: %s\n", includeNotes)

	sb.WriteString(`
Each slide should contain:
1. Clear, concise title
2. Properly structured bullet points or content
3. [Visual placeholder] descriptions for images/diagrams
4. Speaker notes with additional context (if required)
5. Smooth transitions between topics

Ensure slides are:
- Visually balanced with proper white space
- Readable with appropriate text size
- Logically sequenced for natural flow
- Comprehensive enough to stand alone if needed

Format the response as a JSON array with this structure:
[
  {
    "title": "Slide Title",
    "content": [
      {"type": "text", "text": "Bullet point 1"},
      {"type": "text", "text": "Bullet point 2"},
      {"type": "image", "description": "Description of image to include"}
    ],
    "speakerNotes": "Notes for the presenter"
  }
]
`)

	return sb.String()
}

// enabledKeys 按固定顺序返回开启的键，未知键按字典序追加在末尾
func enabledKeys(flags map[string]bool, order []string) []string {
	known := make(map[string]bool, len(order))
	var enabled []string

	for _, key := range order {
		known[key] = true
		if flags[key] {
			enabled = append(enabled, key)
		}
	}

	var extras []string
	for key, on := range flags {
		if on && !known[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)

	return append(enabled, extras...)
}
