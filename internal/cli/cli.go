package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/allisonrosefund/rosepdf/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion 设置 --version 显示的信息，一般由 main 通过 ldflags 注入。
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute 运行命令行，任何命令失败时返回错误。
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

// app 是各子命令共享的状态，在 PersistentPreRunE 中填充。
type app struct {
	configPath string
	assetDir   string
	engine     string
	paper      string
	verbose    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "rosepdf",
		Short:        "rosepdf 生成 Dr. Allison Rose Memorial Fund 的表单与传单",
		Long:         `rosepdf 在单页上排版基金会的奖学金申请表、助学金证明表与宣传传单，输出 PDF（默认带可填写表单字段）或 PNG 预览。`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return a.load(cmd, logger)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("rosepdf %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "输出调试日志")
	flags.StringVar(&a.configPath, "config", "", "配置文件（.toml、.yaml、.json）")
	flags.StringVar(&a.assetDir, "assets", "", "图片资源目录，覆盖配置中的 asset_dir")
	flags.StringVar(&a.engine, "engine", "", "渲染引擎：canvas 或 fpdf")
	flags.StringVar(&a.paper, "paper", "", "纸张：a4、letter、legal、a5")

	root.AddCommand(newApplicationCmd(a))
	root.AddCommand(newFinancialAidCmd(a))
	root.AddCommand(newFlierCmd(a))
	root.AddCommand(newQRCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newTemplatesCmd())
	return root
}

// load 读取配置文件并应用命令行覆盖。
func (a *app) load(cmd *cobra.Command, logger *charmlog.Logger) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
		logger.Debug("config loaded", "path", a.configPath)
	}
	if cmd.Flags().Changed("assets") {
		cfg.AssetDir = a.assetDir
	}
	if a.engine != "" {
		cfg.Engine = a.engine
	}
	if a.paper != "" {
		cfg.Paper = a.paper
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.AssetDir); err != nil {
		logger.Warn("asset directory not found", "dir", cfg.AssetDir)
	}
	a.cfg = cfg
	return nil
}
