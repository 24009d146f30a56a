package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/njchilds90/ndspace/scene"
)

func runCmd(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run <scene.yaml>...",
		Short: "Evaluate the queries in one or more scene files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := g.load()
			if err != nil {
				return err
			}
			sc := scene.New(logger)
			failed := 0
			for _, path := range args {
				f, err := scene.Load(path)
				if err != nil {
					return err
				}
				reports, err := sc.Apply(f)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				n, err := printReports(cmd.OutOrStdout(), reports, asJSON)
				if err != nil {
					return err
				}
				failed += n
			}
			if failed > 0 {
				return fmt.Errorf("%d queries failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON lines")
	return cmd
}

type reportLine struct {
	Op     string `json:"op"`
	Space  string `json:"space,omitempty"`
	Other  string `json:"other,omitempty"`
	Result string `json:"result,omitempty"`
	Known  *bool  `json:"known,omitempty"`
	Error  string `json:"error,omitempty"`
}

// printReports writes one line per report and returns how many failed.
func printReports(w io.Writer, reports []scene.Report, asJSON bool) (int, error) {
	failed := 0
	enc := json.NewEncoder(w)
	for _, r := range reports {
		line := reportLine{Op: r.Query.Op, Space: r.Query.Space, Other: r.Query.Other}
		if r.Err != nil {
			failed++
			line.Error = r.Err.Error()
		} else {
			line.Result = r.Result.String()
			if r.Query.Op == scene.OpContains {
				known := r.Result.Known
				line.Known = &known
			}
		}

		var err error
		switch {
		case asJSON:
			err = enc.Encode(line)
		case line.Error != "":
			_, err = fmt.Fprintf(w, "%-14s %s: error: %s\n", line.Op, subject(line), line.Error)
		default:
			_, err = fmt.Fprintf(w, "%-14s %s: %s\n", line.Op, subject(line), line.Result)
		}
		if err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func subject(l reportLine) string {
	if l.Other != "" {
		return l.Space + " " + l.Other
	}
	return l.Space
}
