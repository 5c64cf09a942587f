// Command bvi is a modal binary (hex) file editor. It wires cfg, vfile
// and editor together behind a cobra root command, the way
// GoogleCloudPlatform-gcsfuse/cmd/root.go wires its own cfg package to
// its mount command.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/EBADBEEF/bvi/cfg"
	"github.com/EBADBEEF/bvi/editor"
	"github.com/EBADBEEF/bvi/vfile"
)

func main() {
	defer glog.Flush()
	if err := newRootCommand().Execute(); err != nil {
		glog.Exit(err)
	}
}

func newRootCommand() *cobra.Command {
	var (
		rcPath   string
		grouping int
		pageSize int64
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "bvi [flags] file...",
		Short: "a modal binary (hex) file editor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := cfg.Load(rcPath)
			if err != nil {
				return fmt.Errorf("loading preferences: %w", err)
			}
			if cmd.Flags().Changed("grouping") {
				if err := prefs.Set("grouping", grouping); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("pagesize") {
				prefs.PageSize = pageSize
			}
			if readOnly {
				prefs.ReadOnly = true
			}

			return run(args, prefs)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&rcPath, "rc", "", "path to an rc file of preference keys (format chosen by its extension)")
	flags.IntVar(&grouping, "grouping", 4, "hex pane byte grouping (1, 2, 4 or 8)")
	flags.Int64Var(&pageSize, "pagesize", 512, "bytes advanced by a full ctrl-f/ctrl-b page motion")
	flags.BoolVar(&readOnly, "readonly", false, "open every file read-only regardless of its permissions")

	return cmd
}

func run(paths []string, prefs *cfg.Prefs) error {
	ring := vfile.NewRing()
	for _, p := range paths {
		f, err := vfile.Open(p)
		if err != nil {
			return fmt.Errorf("opening %s: %w", p, err)
		}
		ring.Add(f)
	}

	adapter := newStdioAdapter()
	m := editor.New(ring.Head(), ring, prefs.PageSize, prefs, adapter, adapter, adapter, adapter)

	for {
		k, err := adapter.NextKey()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		r := m.Dispatch(k)
		if r.Outcome == editor.Invalid && r.Message != "" {
			fmt.Fprintln(os.Stderr, r.Message)
		}
	}
}
