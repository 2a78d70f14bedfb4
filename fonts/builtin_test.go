package fonts

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range []string{"builtin:regular", "built-in:bold", "italic", "builtin:BoldItalic"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) 返回空数据", name)
		}
	}
	if _, err := Load("builtin:wingdings"); err == nil {
		t.Fatalf("未知字体应报错")
	}
}
