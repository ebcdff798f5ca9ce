package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtrans/internal/fileutil"
	"subtrans/internal/subtitles"
)

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Re-encode a subtitle file into the format implied by the output extension",
		Long: "Convert between SRT, ASS/SSA and VTT. ASS styles are kept when both sides\n" +
			"are ASS; unknown output extensions are written as SRT.",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]
			if filepath.Clean(input) == filepath.Clean(output) {
				return errors.New("convert: output path must differ from input")
			}
			track, err := subtitles.ReadFile(input)
			if err != nil {
				return err
			}
			format := subtitles.DetectFormat(output)
			data, err := subtitles.Encode(format, track.Captions, track.Styles)
			if err != nil {
				return fmt.Errorf("encode %s: %w", output, err)
			}
			if err := fileutil.EnsureParentDir(output); err != nil {
				return err
			}
			if err := fileutil.WriteFileAtomic(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			if format == subtitles.FormatUnknown {
				format = subtitles.FormatSRT
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d captions from %s to %s: %s\n",
				len(track.Captions), track.Format, format, output)
			return nil
		},
	}
}
