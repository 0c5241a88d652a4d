package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanmail/seleniumkit/hook"
)

// newHooksCmd creates the "seleniumkit hooks" subcommand.
func newHooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks <file>",
		Short: "Validate a hooks file and list its entries",
		Long:  "Parse a .toml or .yaml hooks file and print each named hook as strategy=value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := hook.Load(args[0])
			if err != nil {
				return fmt.Errorf("hooks: %w", err)
			}
			for _, name := range set.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, set[name])
			}
			return nil
		},
	}
}

// resolveHook parses arg as strategy=value, or looks it up by name in the
// hooks file at path.
func resolveHook(arg, path string) (hook.Hook, error) {
	h, perr := hook.Parse(arg)
	if perr == nil {
		return h, nil
	}
	if path == "" {
		return hook.Hook{}, perr
	}
	set, err := hook.Load(path)
	if err != nil {
		return hook.Hook{}, err
	}
	return set.Get(arg)
}
