// Copyright 2014 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustatian/rock/internal/version"
	"github.com/rustatian/rock/profile"
	"github.com/rustatian/rock/profiler/internal/stackparse"
	"github.com/rustatian/rock/reports/graph"
)

// newRootCommand returns the rock command tree.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rock",
		Short:         "rock decodes and renders pprof profiles.",
		SilenceUsage:  false,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Version = version.Tag

	root.AddCommand(newPathCommand())
	root.AddCommand(newProfileCommand())
	root.AddCommand(newGoroutinesCommand())
	root.AddCommand(newGraphCommand())
	return root
}

// newPathCommand implements "rock path <PATH>".
func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <PATH>",
		Short: "Decode the profile at PATH and print its canonical text form.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("rock: %w", profile.IOFailed(err))
			}
			p, err := profile.Decode(data)
			if err != nil {
				return fmt.Errorf("rock: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), p.Render())
			return nil
		},
	}
}

// newGoroutinesCommand implements "rock goroutines <PATH>": it reads a
// plain-text goroutine dump (the output of runtime.Stack(buf, true), such as
// a SIGQUIT dump or the /debug/pprof/goroutine?debug=2 endpoint) and renders
// it through the same canonical-text path as a wire-format profile.
func newGoroutinesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "goroutines <PATH>",
		Short: "Parse a goroutine-dump text file and print its canonical text form.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("rock: %w", profile.IOFailed(err))
			}
			defer f.Close()

			goroutines, errs := stackparse.Parse(f)
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "rock: skipped malformed goroutine: %v\n", e)
			}
			p := stackparse.ToProfile(goroutines)
			fmt.Fprint(cmd.OutOrStdout(), p.Render())
			return nil
		},
	}
}

// newGraphCommand implements "rock graph <PATH>": it decodes a profile,
// builds its call graph, and prints one line per node (flat value, cum
// value, name), sorted by flat value descending.
func newGraphCommand() *cobra.Command {
	var valueIndex int
	cmd := &cobra.Command{
		Use:   "graph <PATH>",
		Short: "Decode the profile at PATH and print its call graph.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("rock: %w", profile.IOFailed(err))
			}
			p, err := profile.Decode(data)
			if err != nil {
				return fmt.Errorf("rock: %w", err)
			}

			g, err := graph.New(p, &graph.Options{ValueIndex: valueIndex})
			if err != nil {
				return fmt.Errorf("rock: %w", err)
			}

			nodes := append([]*graph.Node(nil), g.Nodes...)
			sort.Slice(nodes, func(i, j int) bool {
				return nodes[i].FlatValue() > nodes[j].FlatValue()
			})
			for _, n := range nodes {
				fmt.Fprintf(cmd.OutOrStdout(), "%10d %10d %s\n", n.FlatValue(), n.CumValue(), n.Info.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&valueIndex, "value-index", 0, "index into Sample.Value used as the node weight")
	return cmd
}

// newProfileCommand is reserved for a future HTTP-profile-fetch subcommand.
func newProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Reserved for fetching a profile over HTTP (not yet implemented).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("rock: profile subcommand is not implemented yet")
		},
	}
}
