package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/session"
)

var processesCmd = &cobra.Command{
	Use:   "processes [filter]",
	Short: "List running processes, optionally filtered by pid or name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProcesses,
}

func init() {
	processesCmd.Flags().Bool("select", false, "Store the pid of the only match in the session file")
	rootCmd.AddCommand(processesCmd)
}

func runProcesses(cmd *cobra.Command, args []string) error {
	filter := ""
	if len(args) == 1 {
		filter = args[0]
	}

	procs, err := session.ListProcesses(session.ProcRoot)
	if err != nil {
		return err
	}
	matches := session.FilterProcesses(procs, filter)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tNAME")
	for _, p := range matches {
		fmt.Fprintf(w, "%d\t%s\n", p.PID, p.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sel, _ := cmd.Flags().GetBool("select"); sel {
		if len(matches) != 1 {
			return fmt.Errorf("--select needs exactly one match, got %d", len(matches))
		}
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		if _, err := store.Update(func(c *session.Config) error {
			c.PID = matches[0].PID
			return nil
		}); err != nil {
			return err
		}
		logger.Info("process selected", "process", matches[0].Label())
	}
	return nil
}
