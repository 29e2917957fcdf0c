package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caraudioevents/subdesigner/internal/config"
	"github.com/caraudioevents/subdesigner/internal/logger"
)

// app carries process configuration shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Log
	out      io.Writer
	rulesDir string
	jsonOut  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, log: logger.Get()}

	rootCmd := &cobra.Command{
		Use:          "subdesigner",
		Short:        "Subwoofer enclosure design and competition classification",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.rulesDir, "rules", "", "directory of rule table YAML files (default: built-in tables)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(a.areaCmd())
	rootCmd.AddCommand(a.tuneCmd())
	rootCmd.AddCommand(a.sealedCmd())
	rootCmd.AddCommand(a.wiringCmd())
	rootCmd.AddCommand(a.classifyCmd())
	rootCmd.AddCommand(a.orgsCmd())
	rootCmd.AddCommand(a.rulesCmd())
	rootCmd.AddCommand(a.validateCmd())
	rootCmd.AddCommand(a.designCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.mcpCmd())

	return rootCmd
}

// init loads the environment config and configures logging. Flags take
// precedence over the environment.
func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.rulesDir == "" {
		a.rulesDir = cfg.RulesDir
	}
	return a.log.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput, cfg.LogMaxAgeDays)
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a design and report advisories without printing results",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runValidate(args[0])
		},
	}
}

func (a *app) designCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "design [project-path]",
		Short: "Run the full design pipeline on a project's design.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runDesign(args[0])
		},
	}
}

func (a *app) rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect competition rule tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate rule tables (built-in tables when no directory is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := a.rulesDir
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runRulesValidate(dir)
		},
	})
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var (
		port   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the design API server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := ""
			if len(args) == 1 {
				project = args[0]
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if cmd.Flags().Changed("db") {
				a.cfg.DBPath = dbPath
			}
			return a.runServe(cmd.Context(), project)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port (overrides SUBDESIGNER_PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for saved designs (overrides SUBDESIGNER_DB_PATH)")
	return cmd
}

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculators as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMCP(cmd.Context())
		},
	}
}
