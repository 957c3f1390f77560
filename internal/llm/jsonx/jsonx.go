// internal/llm/jsonx/jsonx.go
// 模型回复中嵌入的JSON提取助手。
// 模型可能把JSON数组包在说明文字或代码围栏里，这里提供两段独立、
// 可单独测试的纯函数恢复逻辑：先扫描配对的数组片段，失败后再剥离围栏整体解析。
package jsonx

import (
	"strings"
	"unicode"
)

// 统一替换常见的噪声与Markdown标记
var fenceReplacer = strings.NewReplacer(
	"```json", "",
	"```", "",
	"\uFEFF", "",
	" ", " ",
	" ", "\n",
	" ", "\n",
)

// Scrub 移除零宽字符及除换行/制表符外的控制字符
func Scrub(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '​', '‌', '‍', '⁠', '\uFEFF':
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// ExtractArray 在自由文本中定位第一个配对完整的JSON数组片段。
// 括号计数时跳过字符串字面量和转义字符；没有找到配对结束符时
// 回退到最后一个 ] 的旧逻辑。找不到任何数组时返回 ok=false。
func ExtractArray(s string) (string, bool) {
	s = Scrub(s)

	start := strings.Index(s, "[")
	if start == -1 {
		return "", false
	}

	s = s[start:]

	// 简单的括号计数匹配
	balance := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '[' {
				balance++
			} else if char == ']' {
				balance--
			}

			if balance == 0 {
				// 找到了匹配的结束符
				return strings.TrimSpace(s[:i+1]), true
			}
		}
	}

	// 没找到匹配的结束符，回退到最后一个 ]
	end := strings.LastIndex(s, "]")
	if end != -1 {
		return strings.TrimSpace(s[:end+1]), true
	}

	return "", false
}

// StripFences 从整段回复中剥离代码围栏标记并去除首尾空白
func StripFences(s string) string {
	s = fenceReplacer.Replace(s)
	return strings.TrimSpace(Scrub(s))
}
