// Package config 读取命令行使用的配置文件，支持 TOML、YAML 与 JSON。
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/allisonrosefund/rosepdf/forms"
	"github.com/allisonrosefund/rosepdf/qr"
)

// 渲染引擎名称。
const (
	EngineCanvas = "canvas"
	EngineFpdf   = "fpdf"
)

// QR 配置二维码内容与边长（像素）。
type QR struct {
	URL  string `toml:"url" yaml:"url" json:"url"`
	Size int    `toml:"size" yaml:"size" json:"size"`
}

// Config 是配置文件的全部内容，缺省字段由 WithDefaults 补齐。
type Config struct {
	AssetDir string       `toml:"asset_dir" yaml:"asset_dir" json:"asset_dir"`
	Paper    string       `toml:"paper" yaml:"paper" json:"paper"`
	Engine   string       `toml:"engine" yaml:"engine" json:"engine"`
	Fund     forms.Fund   `toml:"fund" yaml:"fund" json:"fund"`
	Assets   forms.Assets `toml:"assets" yaml:"assets" json:"assets"`
	QR       QR           `toml:"qr" yaml:"qr" json:"qr"`
}

// Default 返回不读取任何文件时使用的配置。
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults 补齐空字段。
func (c Config) WithDefaults() Config {
	if c.AssetDir == "" {
		c.AssetDir = "."
	}
	if c.Paper == "" {
		c.Paper = "a4"
	}
	if c.Engine == "" {
		c.Engine = EngineCanvas
	}
	c.Fund = c.Fund.WithDefaults()
	c.Assets = c.Assets.WithDefaults()
	if c.QR.URL == "" {
		c.QR.URL = qr.DefaultURL
	}
	if c.QR.Size <= 0 {
		c.QR.Size = qr.DefaultSize
	}
	return c
}

// Validate 检查取值是否可用。
func (c Config) Validate() error {
	switch c.Engine {
	case EngineCanvas, EngineFpdf:
	default:
		return fmt.Errorf("未知渲染引擎 %q（可选 canvas、fpdf）", c.Engine)
	}
	return nil
}

// Load 按扩展名解析配置文件。相对的 asset_dir 以配置文件所在目录为基准。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	if cfg.AssetDir != "" && !filepath.IsAbs(cfg.AssetDir) {
		cfg.AssetDir = filepath.Join(filepath.Dir(path), cfg.AssetDir)
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

// Parse 解析 data；ext 为 .toml、.yaml、.yml 或 .json。返回值未补齐默认值。
func Parse(data []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("不支持的配置格式 %q", ext)
	}
	return cfg, nil
}
