// Package binding 负责把表单文本中的 ${path} 占位符替换为基金数据。
package binding

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// UnresolvedError 列出未能解析的占位符路径。
type UnresolvedError struct {
	Paths []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("未解析的占位符: %s", strings.Join(e.Paths, ", "))
}

// Resolve 将文本中的 ${path.to.value} 替换为 data 中的值。
// 未解析的占位符原样保留，并以 *UnresolvedError 报告。
func Resolve(text string, data any) (string, error) {
	out, missing := interpolate(text, data)
	if len(missing) > 0 {
		sort.Strings(missing)
		return out, &UnresolvedError{Paths: missing}
	}
	return out, nil
}

func interpolate(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if path == "" {
			missing = append(missing, match)
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		missing = append(missing, path)
		return match
	})
	return out, missing
}

// Lookup 按点分路径在嵌套 map / slice 中取值，支持 a.b[0].c 形式。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
