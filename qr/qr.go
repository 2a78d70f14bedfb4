// Package qr 生成传单上使用的二维码图片。
package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultURL 是二维码默认编码的网址。
	DefaultURL = "https://allisonrosememorialfund.org/"
	// DefaultPath 是二维码图片的默认输出位置，传单从这里引用它。
	DefaultPath = "img/qr.png"
	// DefaultSize 是输出图片的边长（像素）。
	DefaultSize = 290
)

// Encode 返回 url 的二维码 PNG，容错级别为 Medium。
func Encode(url string, size int) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("二维码内容为空")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("生成二维码失败: %w", err)
	}
	return png, nil
}

// WriteFile 把二维码写到 path，必要时创建目录。
func WriteFile(url, path string, size int) error {
	png, err := Encode(url, size)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	return os.WriteFile(path, png, 0o644)
}
