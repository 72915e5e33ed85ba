package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rigd/internal/auth"
	"rigd/internal/backend"
	"rigd/internal/stream"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rigctl",
		Short:         "Operator utilities for rigd",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newHashpwCmd(), newProbeCmd())
	return root
}

func newHashpwCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "hashpw [password]",
		Short:   "Generate a bcrypt password hash for the config file",
		Example: "  rigctl hashpw secret\n  echo -n secret | rigctl hashpw",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pw string
			if len(args) == 1 {
				pw = args[0]
			} else {
				r := bufio.NewReader(cmd.InOrStdin())
				line, err := r.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				pw = strings.TrimRight(line, "\r\n")
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newProbeCmd() *cobra.Command {
	var bin string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:     "probe {sdr|camera}",
		Short:   "Check whether a capture tool is installed and working",
		Example: "  rigctl probe sdr\n  rigctl probe camera --timeout 5s",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := stream.ParseSource(args[0])
			if err != nil {
				return err
			}
			var b stream.Backend
			switch source {
			case stream.SourceSDR:
				b, err = backend.DetectSDR(bin)
			case stream.SourceCamera:
				b, err = backend.DetectCamera(bin)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "detected: %s\n", b.Binary())
			sup := stream.NewSupervisor(source, b)
			if !sup.CheckAvailable(context.Background(), timeout) {
				return fmt.Errorf("%s probe failed within %s", b.Binary(), timeout)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&bin, "bin", "", "Override the capture binary to probe")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Probe timeout")
	return cmd
}
