package binding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleData() map[string]any {
	return map[string]any{
		"fund": map[string]string{
			"name":  "Dr. Allison Rose",
			"email": "applications@allisonrosememorialfund.org",
		},
		"lines": []any{"first", map[string]any{"text": "second"}},
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"${fund.name} Memorial Fund", "Dr. Allison Rose Memorial Fund"},
		{"Questions? ${ fund.email }", "Questions? applications@allisonrosememorialfund.org"},
		{"${lines[0]} / ${lines[1].text}", "first / second"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.in, sampleData())
		if err != nil || got != tc.want {
			t.Fatalf("Resolve(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
	got, err := Resolve("${fund.name}", nil)
	if got != "${fund.name}" || err == nil {
		t.Fatalf("nil 数据应保留占位符并报错，得到 %q, %v", got, err)
	}
}

func TestResolveReportsMissing(t *testing.T) {
	_, err := Resolve("${fund.zip} ${fund.name} ${lines[9]}", sampleData())
	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("期望 UnresolvedError，得到 %v", err)
	}
	if diff := cmp.Diff([]string{"fund.zip", "lines[9]"}, unresolved.Paths); diff != "" {
		t.Fatalf("缺失路径不符 (-want +got):\n%s", diff)
	}

	out, err := Resolve("${fund.name}", sampleData())
	if err != nil || out != "Dr. Allison Rose" {
		t.Fatalf("Resolve = %q, %v", out, err)
	}
}
