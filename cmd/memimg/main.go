package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/logging"
	"github.com/nvr-ai/go-memimg/profiler"
	"github.com/nvr-ai/go-memimg/session"
)

var (
	logger = logging.Default()
	prof   = profiler.New()
)

var rootCmd = &cobra.Command{
	Use:   "memimg <pid> <address> <width> <height> <format>",
	Short: "Dump a raw pixel buffer from another process's memory as an image",
	Long: `memimg reads width*height pixels at address in process pid, interprets them
as one of the OpenCV-style formats listed by "memimg formats", and writes an
8-bit image.

Example:
  memimg 4123 0x7f3a2c000000 640 480 CV_8UC3 --order bgr --out frame`,
	Args:              cobra.ExactArgs(5),
	PersistentPreRunE: setup,
	RunE:              runCapture,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("config", "", "Session file (default $XDG_CONFIG_HOME/memimg/session.toml)")
	pf.Bool("profile", false, "Log stage timings at debug level")
}

func setup(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	l, err := logging.New(os.Stderr, level)
	if err != nil {
		return err
	}
	if on, _ := cmd.Flags().GetBool("profile"); on && l.GetLevel() > log.DebugLevel {
		l.SetLevel(log.DebugLevel)
	}
	logger = l
	return nil
}

func openStore(cmd *cobra.Command) (*session.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	return session.NewStore(path)
}

func reportTimings(cmd *cobra.Command) {
	if on, _ := cmd.Flags().GetBool("profile"); on {
		prof.Report(logger)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "memimg:", err)
		os.Exit(1)
	}
}
