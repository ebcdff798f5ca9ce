package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subtrans/internal/compose"
	"subtrans/internal/config"
	"subtrans/internal/workflow"
)

type translateFlags struct {
	source      string
	target      string
	output      string
	chunkSize   int
	workers     int
	theme       string
	noBilingual bool
	noCache     bool
	stripAds    bool
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var flags translateFlags

	cmd := &cobra.Command{
		Use:   "translate <input>",
		Short: "Translate a subtitle file",
		Long: "Translate an SRT, ASS/SSA or VTT file and write the translation next to it.\n" +
			"Unless --no-bilingual is set, _src, _bilingual and _bilingual_reverse\n" +
			"variants are written alongside.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			job, workers, err := buildTranslateJob(cmd, cfg, args[0], flags)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.LLM.APIKey) == "" {
				return errors.New("llm api key required: set llm.api_key or export SUBTRANS_API_KEY")
			}

			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			backend, closeBackend, err := newBackend(cmd.Context(), cfg, logger, !flags.noCache)
			if err != nil {
				return err
			}
			defer closeBackend()

			runner := workflow.NewRunner(backend,
				workflow.WithWorkers(workers),
				workflow.WithLogger(logger),
			)
			summary, err := runner.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			printTranslateSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Source language code (default: translation.source_language)")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Target language code (default: translation.target_language)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Translation output path (default: <input>_translated<ext>)")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", 0, "Captions per translation block (default: translation.chunk_size)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent translation requests (default: translation.workers)")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "Background hint for the translator, e.g. show title or genre")
	cmd.Flags().BoolVar(&flags.noBilingual, "no-bilingual", false, "Write the translation only")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypass the translation cache")
	cmd.Flags().BoolVar(&flags.stripAds, "strip-ads", false, "Drop subtitle-site advertisement captions before translating")
	return cmd
}

// buildTranslateJob layers explicitly set flags over the config defaults.
func buildTranslateJob(cmd *cobra.Command, cfg *config.Config, input string, flags translateFlags) (workflow.Job, int, error) {
	job := workflow.JobFromConfig(cfg, input)
	workers := cfg.Translation.Workers
	changed := cmd.Flags().Changed

	if changed("source") {
		job.SourceLanguage = flags.source
	}
	if changed("target") {
		job.TargetLanguage = flags.target
	}
	if strings.TrimSpace(job.TargetLanguage) == "" {
		return job, 0, errors.New("target language required: pass --target or set translation.target_language")
	}
	if changed("output") {
		output, err := config.ExpandPath(strings.TrimSpace(flags.output))
		if err != nil {
			return job, 0, fmt.Errorf("resolve output path: %w", err)
		}
		job.Output = output
	}
	if changed("chunk-size") {
		if flags.chunkSize < 1 {
			return job, 0, fmt.Errorf("--chunk-size must be at least 1, got %d", flags.chunkSize)
		}
		job.ChunkSize = flags.chunkSize
	}
	if changed("workers") {
		if flags.workers < 1 {
			return job, 0, fmt.Errorf("--workers must be at least 1, got %d", flags.workers)
		}
		workers = flags.workers
	}
	if changed("theme") {
		job.Theme = flags.theme
	}
	if flags.noBilingual {
		job.Bilingual = false
	}
	if flags.stripAds {
		job.StripAds = true
	}
	return job, workers, nil
}

func printTranslateSummary(cmd *cobra.Command, summary workflow.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Languages: %s -> %s\n", languageLabel(summary.SourceLanguage), languageLabel(summary.TargetLanguage))
	rows := make([][]string, 0, len(summary.Artifacts))
	for _, a := range summary.Artifacts {
		rows = append(rows, []string{artifactLabel(a.Kind), a.Path, strconv.Itoa(a.Captions)})
	}
	fmt.Fprintln(out, renderTable([]string{"Variant", "Path", "Captions"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	fmt.Fprintf(out, "Translated %d captions in %d blocks (%s)", summary.Captions, summary.Blocks, summary.Elapsed.Round(100*time.Millisecond))
	if summary.Missing > 0 {
		fmt.Fprintf(out, ", %d kept in the source language", summary.Missing)
	}
	if summary.Removed > 0 {
		fmt.Fprintf(out, ", %d advertisement captions removed", summary.Removed)
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(out, ", %d malformed records skipped", summary.Skipped)
	}
	fmt.Fprintln(out)
}

func artifactLabel(kind compose.Kind) string {
	switch kind {
	case compose.KindTranslation:
		return "Translation"
	case compose.KindSource:
		return "Source"
	case compose.KindBilingual:
		return "Bilingual"
	case compose.KindBilingualReverse:
		return "Bilingual (reverse)"
	default:
		return string(kind)
	}
}
