package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"feedkeep/internal/feed"
	"feedkeep/internal/storage"
)

// runPrune removes entries beyond the keep count and archives them into the
// reject file unless that is suppressed.
func runPrune(env *cmdEnv, args []string) error {
	fs := pflag.NewFlagSet("prune", pflag.ExitOnError)
	strategyName := fs.StringP("strategy", "s", "published",
		"pruning strategy: published, updated, or since-date")
	sinceDate := fs.StringP("since-date", "d", "",
		"reference date (RFC3339 or YYYY-MM-DD), used only with the since-date strategy")
	rejectPath := fs.StringP("reject-file", "r", "",
		"Atom file receiving pruned entries (default: feed path with .rej.xml extension)")
	noReject := fs.BoolP("no-reject", "R", false, "discard pruned entries instead of archiving them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("prune wants exactly one argument, the number of entries to keep")
	}
	keep, err := strconv.Atoi(fs.Arg(0))
	if err != nil || keep < 0 {
		return fmt.Errorf("keep count must be a non-negative integer, got %q", fs.Arg(0))
	}

	strategy, err := feed.ParseStrategy(*strategyName)
	if err != nil {
		return err
	}
	params := feed.PruneParams{Keep: keep, Strategy: strategy}
	if *sinceDate != "" {
		since, err := parseSinceDate(*sinceDate)
		if err != nil {
			return err
		}
		params.Since = &since
	}

	doc, err := env.loadFeed(true)
	if err != nil {
		return err
	}
	result, err := feed.Prune(doc, params, env.clock)
	if err != nil {
		return err
	}
	if len(result.Removed) == 0 {
		env.logger.Printf("nothing to prune: feed already has at most the target count")
		fmt.Printf("kept %d entries, removed 0\n", result.KeptCount)
		return nil
	}

	// The reject document is written before the primary. If the primary
	// write then fails, the pruned entries exist in both files rather than
	// in neither; re-running the prune merges them again without
	// duplicating.
	if !*noReject {
		path := *rejectPath
		if path == "" {
			path = env.cfg.RejectPath
		}
		if path == "" {
			path = storage.DefaultRejectPath(env.file)
		}
		reject, err := storage.Load(path)
		if err != nil && !errors.Is(err, storage.ErrNotExist) {
			return err
		}
		reject = feed.MergeRejects(reject, doc, result.Removed, env.clock)
		if err := env.saveFeed(path, reject); err != nil {
			return err
		}
	}

	if err := env.saveFeed(env.file, doc); err != nil {
		return err
	}

	fmt.Printf("kept %d entries, removed %d\n", result.KeptCount, len(result.Removed))
	return nil
}

// parseSinceDate accepts a full RFC3339 timestamp or a bare date, which
// reads as midnight UTC.
func parseSinceDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("since-date %q is not RFC3339 or YYYY-MM-DD", s)
}
