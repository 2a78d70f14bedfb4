package qr

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestEncode(t *testing.T) {
	data, err := Encode(DefaultURL, 128)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("输出不是 PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("尺寸错误: %v", b)
	}
	if _, err := Encode("", 128); err == nil {
		t.Fatalf("空内容应报错")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img", "qr.png")
	if err := WriteFile(DefaultURL, path, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("文件不是 PNG")
	}
}
