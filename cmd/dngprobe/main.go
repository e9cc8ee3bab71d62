package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/On-Jun9/dngprobe/internal/config"
	"github.com/On-Jun9/dngprobe/internal/log"
	"github.com/On-Jun9/dngprobe/internal/metadata"
	"github.com/On-Jun9/dngprobe/internal/report"
	"github.com/On-Jun9/dngprobe/internal/tagdump"
	"github.com/On-Jun9/dngprobe/internal/web"
	"github.com/On-Jun9/dngprobe/pkg/types"
)

var (
	appVersion     = "0.1.0"
	cfgFile        string
	ignoreEnhanced bool
	jsonOutput     bool
	logFile        string
	logJSON        bool
	verbose        bool
	addr           string
	noHistory      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dngprobe",
	Short: "Print camera and image metadata of DNG files",
	Long: `dngprobe opens a DNG file, validates it, checks its raw image digest
and prints the camera, exposure and timestamp metadata it carries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the metadata report of a DNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "List every TIFF/EXIF tag of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTags,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web inspector",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appVersion)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output JSON logs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print load steps and a summary")

	inspectCmd.Flags().BoolVar(&ignoreEnhanced, "ignore-enhanced", false, "skip the enhanced image")
	inspectCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP server address")
	serveCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record inspections")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if ignoreEnhanced {
		cfg.IgnoreEnhanced = true
	}
	if jsonOutput {
		cfg.Format = config.FormatJSON
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}
	if verbose {
		cfg.Verbose = true
	}
	if addr != "" {
		cfg.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	logger, err := log.New(cfg.LogFile, cfg.LogJSON, !cfg.LogJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	path := args[0]
	loader := metadata.NewLoader()
	loader.SetProgressCallback(func(event types.LoadEvent) {
		logger.LogEvent(event)
		if cfg.Verbose {
			logger.Progress(event)
		}
	})

	start := time.Now()
	result := loader.Load(path, cfg.IgnoreEnhanced)
	duration := time.Since(start)
	logger.LogResult(path, result, duration)
	if cfg.Verbose {
		logger.Summary(path, result, duration)
	}

	if cfg.Format == config.FormatJSON {
		if err := report.WriteJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else if result.OK() {
		if err := report.Write(cmd.OutOrStdout(), result.Record); err != nil {
			return err
		}
	}

	if result.Err != nil {
		return result.Err
	}
	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	tags, err := tagdump.Dump(args[0])
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	return report.WriteTags(cmd.OutOrStdout(), tags)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	server := web.NewServer()
	server.SetVersion(appVersion)
	server.SetLogger(logger)

	if !noHistory {
		history, err := config.NewUserDataManager(cfg.DataDir)
		if err != nil {
			return err
		}
		server.SetHistory(history)
	}

	return server.Start(cfg.Addr)
}
