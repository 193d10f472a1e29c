package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/session"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Capture the session target into the dump folder",
	Long: `dump reads the pid, address, geometry and format stored in the session file
(see "memimg config") and writes the image into the dump folder. Without --name
the file is named after the current time (day_month__hour_minute_second), with
"(1)", "(2)", ... appended when that name is taken.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	f := dumpCmd.Flags()
	f.StringP("name", "n", "", "File name inside the dump folder")
	f.StringP("codec", "c", "png", "Encoder")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, _ []string) error {
	status := session.NewStatus(logger)
	err := dump(cmd, status, time.Now())
	if err != nil {
		status.Error(err)
	}
	line, _ := status.Line()
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return err
}

func dump(cmd *cobra.Command, status *session.Status, now time.Time) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	if cfg.DumpFolder == "" {
		return errors.New("no dump folder set; use: memimg config set dump_folder=<dir>")
	}
	target, err := cfg.Target()
	if err != nil {
		return err
	}

	codecName, _ := cmd.Flags().GetString("codec")
	enc, err := resolveEncoder(codecName)
	if err != nil {
		return err
	}

	path := session.DumpPath(cfg.DumpFolder, now, enc.Ext())
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		if path, err = session.NamedDumpPath(cfg.DumpFolder, name, enc.Ext()); err != nil {
			return err
		}
	}

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	img, err := p.grab(cmd.Context(), target)
	if err != nil {
		return err
	}
	if err := write(cmd.Context(), img, path, enc); err != nil {
		return err
	}

	status.Info("Image saved to %s", path)
	reportTimings(cmd)
	return nil
}
