package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncodeDebugJSON 将布局结果以缩进 JSON 写入 w，便于核对坐标与控件。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return fmt.Errorf("布局结果为空")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON 把布局结果写到 path，必要时创建目录。
func WriteDebugJSON(res *Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
