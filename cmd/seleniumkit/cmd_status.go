package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// newStatusCmd creates the "seleniumkit status" subcommand.
func newStatusCmd() *cobra.Command {
	var flags sessionFlags
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Open a session and print the server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, _, err := flags.open()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			if err := b.Start(); err != nil {
				return fmt.Errorf("status: %w", err)
			}
			defer func() {
				if err := b.Stop(); err != nil {
					glog.Warningf("status: %v", err)
				}
			}()

			st, err := b.Status()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session: %s\n", b.Name())
			fmt.Fprintf(out, "ready: %t\n", st.Ready)
			if st.Message != "" {
				fmt.Fprintf(out, "message: %s\n", st.Message)
			}
			if st.Build.Version != "" {
				fmt.Fprintf(out, "build: %s\n", st.Build.Version)
			}
			if st.OS.Name != "" {
				fmt.Fprintf(out, "os: %s %s %s\n", st.OS.Name, st.OS.Version, st.OS.Arch)
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
