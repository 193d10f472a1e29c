package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/codec/vipsenc"
	"github.com/nvr-ai/go-memimg/session"
)

var dumpsCmd = &cobra.Command{
	Use:   "dumps",
	Short: "List the images in the dump folder, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runDumps,
}

func init() {
	f := dumpsCmd.Flags()
	f.String("thumbnails", "", "Also write a PNG thumbnail of every dump into this directory")
	f.Int("thumb-size", 128, "Thumbnail bounding box in pixels")
	rootCmd.AddCommand(dumpsCmd)
}

func runDumps(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	if cfg.DumpFolder == "" {
		return fmt.Errorf("no dump folder set; use: memimg config set dump_folder=<dir>")
	}

	dumps, err := session.ListDumps(cfg.DumpFolder)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODIFIED\tSIZE\tFILE")
	for _, d := range dumps {
		fmt.Fprintf(w, "%s\t%d\t%s\n", d.ModTime.Format(time.DateTime), d.Size, filepath.Base(d.Path))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("thumbnails")
	if dir == "" {
		return nil
	}
	size, _ := cmd.Flags().GetInt("thumb-size")
	return writeThumbnails(dumps, dir, size)
}

func writeThumbnails(dumps []session.DumpFile, dir string, size int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, d := range dumps {
		data, err := os.ReadFile(d.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", d.Path, err)
		}
		thumb, err := vipsenc.Thumbnail(data, size, size)
		if err != nil {
			logger.Warn("skipping thumbnail", "file", d.Path, "err", err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path)) + ".thumb.png"
		if err := os.WriteFile(filepath.Join(dir, name), thumb, 0o644); err != nil {
			return fmt.Errorf("writing thumbnail: %w", err)
		}
	}
	logger.Info("thumbnails written", "dir", dir, "count", len(dumps))
	return nil
}
