package layout

import (
	"math"
	"strings"
	"unicode"
)

// GreedyWrap 按宽度贪心折行：优先在空白处断开，过长的词按字符拆分，显式换行总会产生新行。
// measure 返回一段文本的宽度，单位与 limit 一致；limit <= 0 表示不限宽。
func GreedyWrap(content string, limit float64, measure func(string) float64) []TextLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		line := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		builder.Reset()
		currentWidth = 0
		if line == "" && !force {
			return
		}
		lines = append(lines, TextLine{Content: line, Width: measure(line)})
	}

	appendToken := func(token string) {
		// 行首空白丢弃
		if builder.Len() == 0 && strings.TrimSpace(token) == "" {
			return
		}
		builder.WriteString(token)
		currentWidth += measure(token)
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			if currentWidth > 0 && currentWidth+measure(chunk) > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	if builder.Len() > 0 || len(lines) == 0 {
		emit(true)
	}
	return lines
}

// tokenizeContent 把文本切成交替的空白段与非空白段，换行单独成段。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure func(string) float64) []string {
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && measure(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = []rune{r}
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
