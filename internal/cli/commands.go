package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/allisonrosefund/rosepdf/dsl"
	"github.com/allisonrosefund/rosepdf/forms"
	"github.com/allisonrosefund/rosepdf/layout"
	"github.com/allisonrosefund/rosepdf/qr"
)

const (
	defaultApplicationOut  = "forms/application_form_v1.pdf"
	defaultFinancialAidOut = "forms/financial_aid_certification_v1.pdf"
	defaultFlierOut        = "forms/flier.pdf"
)

func newApplicationCmd(a *app) *cobra.Command {
	var (
		o       outputOpts
		variant string
	)
	cmd := &cobra.Command{
		Use:   "application",
		Short: "生成奖学金申请表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := forms.ParseVariant(variant)
			if err != nil {
				return err
			}
			def := "forms/application_form_" + string(v) + ".pdf"
			return a.build(cmd, &o, def, a.cfg.AssetDir, nil, func(g forms.Generator) (*layout.Result, error) {
				return g.Application(v)
			})
		},
	}
	o.register(cmd, defaultApplicationOut)
	cmd.Flags().StringVar(&variant, "variant", string(forms.VariantV1), "版本：v1 或 v2")
	return cmd
}

func newFinancialAidCmd(a *app) *cobra.Command {
	var o outputOpts
	cmd := &cobra.Command{
		Use:   "financial-aid",
		Short: "生成助学金证明表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd, &o, defaultFinancialAidOut, a.cfg.AssetDir, nil, forms.Generator.FinancialAid)
		},
	}
	o.register(cmd, defaultFinancialAidOut)
	return cmd
}

func newFlierCmd(a *app) *cobra.Command {
	var (
		o      outputOpts
		qrFile bool
	)
	cmd := &cobra.Command{
		Use:   "flier",
		Short: "生成宣传传单",
		Long:  "生成宣传传单。默认在内存中生成二维码；--qr-file 改为引用资源目录中的二维码图片。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qrPath := ""
			var images map[string][]byte
			if !qrFile {
				png, err := qr.Encode(a.cfg.QR.URL, a.cfg.QR.Size)
				if err != nil {
					return err
				}
				images = map[string][]byte{"qr": png}
				qrPath = "built-in:qr"
			}
			return a.build(cmd, &o, defaultFlierOut, a.cfg.AssetDir, images, func(g forms.Generator) (*layout.Result, error) {
				return g.Flier(qrPath)
			})
		},
	}
	o.register(cmd, defaultFlierOut)
	cmd.Flags().BoolVar(&qrFile, "qr-file", false, "使用资源目录中的二维码图片")
	return cmd
}

func newQRCmd(a *app) *cobra.Command {
	var (
		out  string
		url  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "生成基金会网址的二维码 PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = a.cfg.QR.URL
			}
			if size <= 0 {
				size = a.cfg.QR.Size
			}
			if out == "" {
				out = filepath.Join(a.cfg.AssetDir, qr.DefaultPath)
			}
			if err := qr.WriteFile(url, out, size); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("qr written", "url", url, "size", size)
			printSuccess(cmd.OutOrStdout(), "Wrote %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件（默认 <assets>/"+qr.DefaultPath+"）")
	cmd.Flags().StringVar(&url, "url", "", "二维码内容（默认使用配置中的网址）")
	cmd.Flags().IntVar(&size, "size", 0, "图片边长（像素）")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var o outputOpts
	cmd := &cobra.Command{
		Use:   "render <file.form>",
		Short: "渲染一个 .form 表单描述文件",
		Long:  "渲染 .form 文件。图片路径相对于该文件所在目录，除非指定了 --assets。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			doc, err := dsl.ParseFile(input)
			if err != nil {
				return err
			}
			baseDir := filepath.Dir(input)
			if cmd.Flags().Changed("assets") {
				baseDir = a.cfg.AssetDir
			}
			png, err := qr.Encode(a.cfg.QR.URL, a.cfg.QR.Size)
			if err != nil {
				return err
			}
			def := filepath.Join(filepath.Dir(input), doc.Name+"_"+doc.Version+".pdf")
			return a.build(cmd, &o, def, baseDir, map[string][]byte{"qr": png}, func(g forms.Generator) (*layout.Result, error) {
				return g.Compile(doc)
			})
		},
	}
	o.register(cmd, "<dir>/<form>_<version>.pdf")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "列出内置的表单模板",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range forms.Templates() {
				doc, err := forms.Template(name)
				if err != nil {
					return err
				}
				printItem(cmd.OutOrStdout(), name, "form "+doc.Name+" "+doc.Version)
			}
			return nil
		},
	}
}
