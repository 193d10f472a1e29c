package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/session"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persisted session",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the session values",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change session values (keys: " + strings.Join(session.Keys, ", ") + ")",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	return printConfig(cmd, store.Path, cfg)
}

func printConfig(cmd *cobra.Command, path string, cfg session.Config) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "# %s\n", path)
	for _, key := range session.Keys {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", key, v)
	}
	return w.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	cfg, err := store.Update(func(c *session.Config) error {
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			if err := c.Set(strings.TrimSpace(key), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return printConfig(cmd, store.Path, cfg)
}
