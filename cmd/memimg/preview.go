package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/codec"
	"github.com/nvr-ai/go-memimg/images"
	"github.com/nvr-ai/go-memimg/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the session target at a zoom level",
	Long: `preview reads the session target and writes a nearest-neighbour scaled PNG.
Each --zoom-in step enlarges by 10%, each --zoom-out step shrinks by 10%.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.Int("zoom-in", 0, "Number of zoom-in steps")
	f.Int("zoom-out", 0, "Number of zoom-out steps")
	f.StringP("out", "o", "preview.png", "Output file")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	target, err := cfg.Target()
	if err != nil {
		return err
	}

	var view session.View
	in, _ := cmd.Flags().GetInt("zoom-in")
	out, _ := cmd.Flags().GetInt("zoom-out")
	for i := 0; i < in; i++ {
		view.ZoomIn()
	}
	for i := 0; i < out; i++ {
		view.ZoomOut()
	}

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	img, err := p.grab(cmd.Context(), target)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("out")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := codec.Default.Encode(f, images.Preview(img, view.Scale())); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s at %d%%\n", path, view.Percent())
	return nil
}
