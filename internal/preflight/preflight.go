package preflight

import (
	"context"

	"subtrans/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options toggles the slower checks.
type Options struct {
	// SkipLLM leaves out the network round trip to the LLM API.
	SkipLLM bool
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Output directory (when configured; otherwise files go next to the input)
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckCache(ctx, cfg.Cache.Path))
	}

	if !opts.SkipLLM {
		results = append(results, CheckLLM(ctx, "Translation LLM", cfg.LLM))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
