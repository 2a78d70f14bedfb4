package cli

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/allisonrosefund/rosepdf/forms"
	"github.com/allisonrosefund/rosepdf/qr"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

// writeAssets 在 dir 下生成所有默认图片，内容借用二维码 PNG。
func writeAssets(t *testing.T, dir string) {
	t.Helper()
	a := forms.DefaultAssets()
	for _, p := range []string{a.Logo, a.AidLogo, a.Stethoscope, a.Mortarboard, a.QR} {
		if err := qr.WriteFile("asset", filepath.Join(dir, p), 64); err != nil {
			t.Fatalf("write asset %s: %v", p, err)
		}
	}
}

func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("%s is not a PDF", path)
	}
	return data
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level: %q", buf.String())
	}
	logger.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("info message missing: %q", buf.String())
	}
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	if !strings.Contains(out, "application_v2") {
		t.Fatalf("application_v2 not listed: %q", out)
	}
}

func TestQRCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	out, err := run(t, "qr", "-o", path, "--size", "100")
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output should name the file: %q", out)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestApplicationCommand(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir)
	for _, variant := range []string{"v1", "v2"} {
		t.Run(variant, func(t *testing.T) {
			pdfPath := filepath.Join(dir, "out", variant+".pdf")
			debugPath := filepath.Join(dir, "out", variant+".json")
			_, err := run(t, "application", "--variant", variant, "--engine", "fpdf",
				"--assets", dir, "-o", pdfPath, "--debug", debugPath)
			if err != nil {
				t.Fatalf("application: %v", err)
			}
			readPDF(t, pdfPath)
			debug, err := os.ReadFile(debugPath)
			if err != nil {
				t.Fatalf("read debug: %v", err)
			}
			if !bytes.Contains(debug, []byte(`"fullname_field"`)) {
				t.Fatalf("debug JSON should list widgets")
			}
		})
	}
}

func TestApplicationFillableByDefault(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir)

	fillable := filepath.Join(dir, "fillable.pdf")
	if _, err := run(t, "application", "--engine", "fpdf", "--assets", dir, "-o", fillable); err != nil {
		t.Fatalf("application: %v", err)
	}
	fields, err := api.FormFields(bytes.NewReader(readPDF(t, fillable)), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("FormFields: %v", err)
	}
	if len(fields) != 22 {
		t.Fatalf("default PDF should carry 22 form fields, got %d", len(fields))
	}

	flat := filepath.Join(dir, "flat.pdf")
	if _, err := run(t, "application", "--engine", "fpdf", "--assets", dir, "--flat", "-o", flat); err != nil {
		t.Fatalf("application --flat: %v", err)
	}
	if _, err := api.FormFields(bytes.NewReader(readPDF(t, flat)), model.NewDefaultConfiguration()); err == nil {
		t.Fatalf("--flat PDF should have no form")
	}
}

func TestFinancialAidAndFlierCommands(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir)
	for _, name := range []string{"financial-aid", "flier"} {
		path := filepath.Join(dir, name+".pdf")
		if _, err := run(t, name, "--engine", "fpdf", "--assets", dir, "-o", path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		readPDF(t, path)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	src := `form notice v1 {
  page letter {
    title "Notice"
    image "built-in:qr" x=20 y=60 w=80 h=80
    text "Questions? ${fund.email}" y=170
  }
}`
	input := filepath.Join(dir, "notice.form")
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatalf("write form: %v", err)
	}
	out, err := run(t, "render", input, "--engine", "fpdf")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := filepath.Join(dir, "notice_v1.pdf")
	readPDF(t, want)
	if !strings.Contains(out, want) {
		t.Fatalf("output should name %s: %q", want, out)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string][]string{
		"unknown engine":    {"application", "--engine", "wasm"},
		"unknown variant":   {"application", "--variant", "v9"},
		"fpdf png":          {"application", "--engine", "fpdf", "--format", "png", "-o", filepath.Join(dir, "a.png")},
		"fillable png":      {"application", "--format", "png", "--fillable", "-o", filepath.Join(dir, "b.png")},
		"fillable and flat": {"application", "--fillable", "--flat", "-o", filepath.Join(dir, "d.pdf")},
		"unknown format":    {"flier", "--format", "svg"},
		"missing config":    {"templates", "--config", filepath.Join(dir, "missing.toml")},
		"missing image":     {"financial-aid", "--engine", "fpdf", "--assets", dir, "-o", filepath.Join(dir, "c.pdf")},
		"render bad input":  {"render", filepath.Join(dir, "missing.form")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}
