package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtrans/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List the language codes offered for translation",
		Long:        "List the built-in language codes. Any other valid BCP 47 tag is accepted as well.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			supported := language.Supported()
			rows := make([][]string, 0, len(supported))
			for _, info := range supported {
				rows = append(rows, []string{info.Code, info.Display, info.Native})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Language", "Native"}, rows, nil))
			return nil
		},
	}
}

// languageLabel renders a normalized code with its English and native names,
// e.g. "zh (Simplified Chinese, 简体中文)".
func languageLabel(code string) string {
	if code == language.Auto {
		return "auto-detect"
	}
	name := language.DisplayName(code)
	if native := language.NativeName(code); native != "" && native != name {
		return fmt.Sprintf("%s (%s, %s)", code, name, native)
	}
	return fmt.Sprintf("%s (%s)", code, name)
}
