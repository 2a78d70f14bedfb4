package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allisonrosefund/rosepdf/acroform"
	"github.com/allisonrosefund/rosepdf/config"
	"github.com/allisonrosefund/rosepdf/forms"
	"github.com/allisonrosefund/rosepdf/layout"
	"github.com/allisonrosefund/rosepdf/renderer"
	canvasrenderer "github.com/allisonrosefund/rosepdf/renderer/canvas"
	fpdfrenderer "github.com/allisonrosefund/rosepdf/renderer/fpdf"
)

// backend 同时负责排版时的文本度量与最终输出。
type backend interface {
	renderer.Renderer
	layout.Measurer
}

// outputOpts 是各生成命令共用的输出参数。
type outputOpts struct {
	out      string // 输出文件，为空时使用命令的默认路径
	format   string // pdf 或 png
	debug    string // 布局调试 JSON 路径
	fillable bool   // 在 PDF 中添加可填写的表单字段
	flat     bool   // 只输出静态页面
}

func (o *outputOpts) register(cmd *cobra.Command, defaultOut string) {
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "", fmt.Sprintf("输出文件（默认 %s）", defaultOut))
	f.StringVar(&o.format, "format", string(renderer.FormatPDF), "输出格式：pdf 或 png")
	f.StringVar(&o.debug, "debug", "", "把布局结果写成 JSON")
	f.BoolVar(&o.fillable, "fillable", true, "添加可填写的表单字段（仅 PDF）")
	f.BoolVar(&o.flat, "flat", false, "不添加表单字段，只输出静态页面")
	cmd.MarkFlagsMutuallyExclusive("fillable", "flat")
}

// resolve 确定输出格式与路径。PDF 默认带表单字段；PNG 没有表单，
// 只有显式传入 --fillable 时才报错。
func (o *outputOpts) resolve(cmd *cobra.Command, defaultOut string) (renderer.Format, string, error) {
	format := renderer.Format(strings.ToLower(o.format))
	switch format {
	case renderer.FormatPDF:
		o.fillable = o.fillable && !o.flat
	case renderer.FormatPNG:
		if cmd.Flags().Changed("fillable") && o.fillable {
			return "", "", fmt.Errorf("--fillable 只能用于 PDF 输出")
		}
		o.fillable = false
	default:
		return "", "", fmt.Errorf("未知输出格式 %q（可选 pdf、png）", o.format)
	}
	out := o.out
	if out == "" {
		out = strings.TrimSuffix(defaultOut, filepath.Ext(defaultOut)) + format.Extension()
	}
	return format, out, nil
}

// newBackend 按配置的引擎创建渲染器；images 作为 built-in:<name> 图片提供。
func (a *app) newBackend(baseDir string, format renderer.Format, images map[string][]byte) (backend, error) {
	switch a.cfg.Engine {
	case config.EngineFpdf:
		if format != renderer.FormatPDF {
			return nil, fmt.Errorf("fpdf 引擎只支持 PDF 输出")
		}
		return fpdfrenderer.NewRenderer(baseDir, images), nil
	case config.EngineCanvas:
		res := make(map[string]canvasrenderer.Resource, len(images))
		for name, blob := range images {
			res[name] = canvasrenderer.Resource{Bytes: blob}
		}
		return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir: baseDir,
			Format:  format,
			Images:  res,
		}), nil
	}
	return nil, fmt.Errorf("未知渲染引擎 %q", a.cfg.Engine)
}

func (a *app) generator(ctx context.Context, m layout.Measurer) forms.Generator {
	return forms.Generator{
		Measurer: m,
		Fund:     a.cfg.Fund,
		Assets:   a.cfg.Assets,
		Paper:    a.cfg.Paper,
		Creator:  "rosepdf " + version,
		Logger:   loggerFromContext(ctx),
	}
}

// build 是生成命令的公共流程：创建渲染器，排版，渲染并写出文件。
func (a *app) build(cmd *cobra.Command, o *outputOpts, defaultOut, baseDir string, images map[string][]byte,
	layoutFn func(forms.Generator) (*layout.Result, error)) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	format, out, err := o.resolve(cmd, defaultOut)
	if err != nil {
		return err
	}
	r, err := a.newBackend(baseDir, format, images)
	if err != nil {
		return err
	}
	res, err := layoutFn(a.generator(ctx, r))
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	logger.Debug("layout done", "texts", len(res.Page.Texts), "widgets", len(res.Page.Widgets))

	if o.debug != "" {
		if err := layout.WriteDebugJSON(res, o.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	data, err := r.Render(res)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if o.fillable {
		if data, err = acroform.Apply(data, res); err != nil {
			return err
		}
	}
	if err := writeFile(out, data); err != nil {
		return err
	}
	p.done("rendered", "engine", a.cfg.Engine, "format", format)

	w := cmd.OutOrStdout()
	printSuccess(w, "Wrote %s", out)
	if o.debug != "" {
		printFile(w, o.debug)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
