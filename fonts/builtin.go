// Package fonts 提供内建字体数据，使排版与渲染不依赖系统字体。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

var builtin = map[string][]byte{
	"regular":    goregular.TTF,
	"bold":       gobold.TTF,
	"italic":     goitalic.TTF,
	"bolditalic": gobolditalic.TTF,
}

// Load 返回内建字体的 TTF 数据，name 可写为 "builtin:bold" 或 "bold"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(strings.TrimPrefix(name, "built-in:"), "builtin:")
	data, ok := builtin[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("内建字体 %s 不存在", name)
	}
	return data, nil
}
