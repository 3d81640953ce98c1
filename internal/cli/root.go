package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/codereg/internal/config"
	"github.com/dshills/codereg/internal/logger"
)

const version = "0.3.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitWarnings     = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitRuntimeError = 4
)

// Global flags
var (
	flagConfig   string
	flagLogLevel string
	flagLogJSON  bool
	flagStrict   bool
)

var rootCmd = &cobra.Command{
	Use:   "codereg",
	Short: "Prepare source code documents for software copyright registration",
	Long: "Codereg reads a source tree, removes comments by configurable rules and writes a paginated " +
		"filing document together with an audit document listing everything removed.",
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	exitCode = ExitSuccess
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codereg version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codereg version %s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/codereg/config.yaml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flagLogJSON, "log-json", false, "Log as JSON")
	pf.BoolVar(&flagStrict, "strict", false, "Exit with code 1 when the run produced warnings")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagKeys binds command flags to config keys. A flag overrides the config
// only when it was given on the command line.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-json":       "log.json",
	"name":           "software.name",
	"software-ver":   "software.version",
	"include":        "source.include",
	"exclude":        "source.exclude",
	"min-lines":      "source.minLines",
	"keep-blank":     "source.keepBlankLines",
	"encoding":       "source.encoding",
	"git":            "source.gitTracked",
	"order":          "order.strategy",
	"files":          "order.files",
	"strip-header":   "redaction.stripFileHeader",
	"strip-block":    "redaction.stripBlockComments",
	"strip-foreign":  "redaction.stripForeignComments",
	"sample":         "redaction.samplingRatio",
	"native-script":  "redaction.nativeScript",
	"format":         "document.format",
	"lines-per-page": "document.linesPerPage",
	"out-dir":        "document.outDir",
	"pdf-font":       "document.pdfFont",
	"report":         "report.format",
	"no-cache":       "cache.enabled",
	"workers":        "workers",
}

// buildOverrides collects the flags set on cmd as config overrides. Values
// are passed as strings and decoded by the config layer.
func buildOverrides(flags *pflag.FlagSet) map[string]any {
	m := make(map[string]any)
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		v := f.Value.String()
		if f.Name == "no-cache" {
			v = fmt.Sprint(v != "true")
		}
		m[key] = v
	})
	return m
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(flagConfig, buildOverrides(cmd.Flags()))
}

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: os.Stderr})
}

// fail prints err and sets the exit code by error class.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, config.ErrInvalid) {
		exitCode = ExitConfigError
		return
	}
	exitCode = ExitRuntimeError
}

