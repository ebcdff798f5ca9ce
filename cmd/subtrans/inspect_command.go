package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subtrans/internal/subtitles"
)

const inspectTextWidth = 60

func newInspectCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:         "inspect <file>",
		Short:       "Parse a subtitle file and summarize its contents",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			track, err := subtitles.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:     %s\n", args[0])
			fmt.Fprintf(out, "Format:   %s\n", track.Format)
			fmt.Fprintf(out, "Captions: %d\n", len(track.Captions))
			fmt.Fprintf(out, "Skipped:  %d\n", len(track.Skipped))
			if track.Styles != nil {
				fmt.Fprintf(out, "Styles:   %d\n", countStyleLines(track.Styles))
			}

			shown := track.Captions
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			if len(shown) > 0 {
				rows := make([][]string, 0, len(shown))
				for _, c := range shown {
					rows = append(rows, []string{strconv.Itoa(c.Index), c.Start, c.End, c.Style, cellText(c.Text, inspectTextWidth)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Start", "End", "Style", "Text"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				if len(shown) < len(track.Captions) {
					fmt.Fprintf(out, "... %d more captions (use --limit 0 to show all)\n", len(track.Captions)-len(shown))
				}
			}

			for _, skip := range track.Skipped {
				fmt.Fprintf(out, "skipped record %d: %s\n", skip.Position, skip.Reason)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of captions to show (0 shows all)")
	return cmd
}

func countStyleLines(meta *subtitles.StyleMetadata) int {
	n := 0
	for _, line := range meta.Styles {
		if strings.HasPrefix(line, "Style:") {
			n++
		}
	}
	return n
}
