package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pstuifzand/renderwatch/internal/config"
	"github.com/pstuifzand/renderwatch/internal/sink"
)

var rootCmd = &cobra.Command{
	Use:   "renderwatch",
	Short: "Explain why tracked components re-render",
	Long: `renderwatch diffs the props and state of tracked component instances
between invocations and reports what changed, with a link that opens the
component's source in your editor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

func main() {
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/renderwatch/config.toml)")
	rootCmd.PersistentFlags().String("log", "renderwatch.log", "log file, empty to disable")
	rootCmd.PersistentFlags().StringArray("set", nil, "override a setting for this run (key=value)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) error {
	path, err := cmd.Root().PersistentFlags().GetString("log")
	if err != nil {
		return err
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(logFile)
	return nil
}

// loadConfig reads the config named by --config, or the default one, and
// applies --set overrides as session settings
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	overrides, err := flags.GetStringArray("set")
	if err != nil {
		return nil, err
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		cfg.Set(key, value)
	}
	return cfg, nil
}

// colorMode resolves --color against the terminal and configures
// fatih/color for the command's own output
func colorMode(cmd *cobra.Command) (sink.ColorMode, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return sink.ColorOff, err
	}
	mode, err := sink.ParseColorMode(flag)
	if err != nil {
		return sink.ColorOff, err
	}
	if mode == sink.ColorAuto {
		mode = sink.ColorOff
		if isTerminal(os.Stdout) {
			mode = sink.ColorOn
		}
	}
	color.NoColor = mode == sink.ColorOff
	return mode, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
