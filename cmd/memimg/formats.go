package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/mat"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported pixel formats",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALIAS\tCHANNELS\tBYTES/CH\tBYTES/PX\tOUTPUT\tCV_TYPE")
	for _, f := range pixfmt.Formats() {
		mt, err := mat.MatType(f)
		if err != nil {
			return err
		}
		def := ""
		if f == pixfmt.DefaultFormat {
			def = " (default)"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%d\t%d\t%d\t%s\t%d\n",
			f, def, f.Alias(), f.Channels(), f.BytesPerChannel(), f.BytesPerPixel(), f.Layout(), int(mt))
	}
	return w.Flush()
}

