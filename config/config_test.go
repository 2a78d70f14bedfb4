package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/allisonrosefund/rosepdf/config"
	"github.com/allisonrosefund/rosepdf/forms"
	"github.com/allisonrosefund/rosepdf/qr"
)

func TestParseFormats(t *testing.T) {
	cases := map[string]string{
		".toml": `
paper = "letter"
engine = "fpdf"

[fund]
email = "office@example.org"

[qr]
size = 128
`,
		".yaml": `
paper: letter
engine: fpdf
fund:
  email: office@example.org
qr:
  size: 128
`,
		".json": `{"paper": "letter", "engine": "fpdf", "fund": {"email": "office@example.org"}, "qr": {"size": 128}}`,
	}
	want := config.Config{
		Paper:  "letter",
		Engine: "fpdf",
		Fund:   forms.Fund{Email: "office@example.org"},
		QR:     config.QR{Size: 128},
	}
	for ext, src := range cases {
		t.Run(ext, func(t *testing.T) {
			got, err := config.Parse([]byte(src), ext)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	if _, err := config.Parse([]byte("x"), ".ini"); err == nil {
		t.Fatalf("expected error for .ini")
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Paper != "a4" || cfg.Engine != config.EngineCanvas || cfg.AssetDir != "." {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.QR.URL != qr.DefaultURL || cfg.QR.Size != qr.DefaultSize {
		t.Fatalf("unexpected qr defaults: %+v", cfg.QR)
	}
	if diff := cmp.Diff(forms.DefaultFund(), cfg.Fund); diff != "" {
		t.Fatalf("fund mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadResolvesAssetDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rosepdf.yml")
	if err := os.WriteFile(path, []byte("asset_dir: assets\nfund:\n  academic_year: 2025-2026\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AssetDir != filepath.Join(dir, "assets") {
		t.Fatalf("asset dir = %s", cfg.AssetDir)
	}
	if cfg.Fund.AcademicYear != "2025-2026" || cfg.Fund.Name != forms.DefaultFund().Name {
		t.Fatalf("fund not merged with defaults: %+v", cfg.Fund)
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosepdf.toml")
	if err := os.WriteFile(path, []byte(`engine = "wasm"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
}
