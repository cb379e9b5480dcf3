package feed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"feedkeep/internal/atom"
)

// Strategy selects which entries a prune keeps.
type Strategy int

const (
	// StrategyPublished keeps the N most recently published entries.
	// Entries with no published timestamp sort as older than any entry
	// with one.
	StrategyPublished Strategy = iota
	// StrategyUpdated keeps the N most recently updated entries.
	StrategyUpdated
	// StrategySinceDate keeps every entry whose published (or, failing
	// that, updated) timestamp is on or after the reference date; the keep
	// count is ignored for selection.
	StrategySinceDate
)

// ParseStrategy converts a strategy argument: published, updated, or
// since-date.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "published":
		return StrategyPublished, nil
	case "updated":
		return StrategyUpdated, nil
	case "since-date":
		return StrategySinceDate, nil
	}
	return 0, invalidf("strategy", nil, "unknown pruning strategy %q", s)
}

func (s Strategy) String() string {
	switch s {
	case StrategyPublished:
		return "published"
	case StrategyUpdated:
		return "updated"
	case StrategySinceDate:
		return "since-date"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// PruneParams control one prune operation.
type PruneParams struct {
	// Keep is the number of entries to retain (ignored for selection by
	// the since-date strategy).
	Keep     int
	Strategy Strategy
	// Since is the reference timestamp for the since-date strategy.
	Since *time.Time
}

// PruneResult reports what a prune did. Removed holds the pruned entries in
// their original document order, for merging into a reject document.
type PruneResult struct {
	KeptCount int
	Removed   []atom.Entry
}

// Prune mutates doc to retain only the selected entries. Kept entries stay
// in document order; selection never reorders storage. When the keep count
// meets or exceeds the entry count the operation is a no-op and the
// document's updated timestamp is left untouched; otherwise it is refreshed.
func Prune(doc *atom.Feed, p PruneParams, clock Clock) (*PruneResult, error) {
	if p.Keep < 0 {
		return nil, invalidf("count", nil, "keep count must not be negative")
	}
	if p.Strategy == StrategySinceDate && p.Since == nil {
		return nil, invalidf("since-date", ErrMissingRequired,
			"the since-date strategy needs a reference date")
	}

	var keep map[int]bool
	switch p.Strategy {
	case StrategyPublished, StrategyUpdated:
		if p.Keep >= len(doc.Entries) {
			return &PruneResult{KeptCount: len(doc.Entries)}, nil
		}
		keep = keepNewest(doc.Entries, p.Keep, p.Strategy)
	case StrategySinceDate:
		keep = keepSince(doc.Entries, *p.Since)
	default:
		return nil, invalidf("strategy", nil, "unknown pruning strategy %d", int(p.Strategy))
	}

	kept := make([]atom.Entry, 0, len(keep))
	var removed []atom.Entry
	for i, e := range doc.Entries {
		if keep[i] {
			kept = append(kept, e)
		} else {
			removed = append(removed, e)
		}
	}
	if len(removed) == 0 {
		return &PruneResult{KeptCount: len(doc.Entries)}, nil
	}

	doc.Entries = kept
	doc.Updated = clock.now()
	return &PruneResult{KeptCount: len(kept), Removed: removed}, nil
}

// keepNewest ranks entries newest-first under the strategy's timestamp and
// marks the first n for keeping. The sort is stable, so entries that compare
// equal (including published-less entries under the published strategy)
// tie-break on their original document order.
func keepNewest(entries []atom.Entry, n int, strategy Strategy) map[int]bool {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, aok := strategyTime(entries[order[a]], strategy)
		tb, bok := strategyTime(entries[order[b]], strategy)
		if aok != bok {
			return aok // an entry with a timestamp outranks one without
		}
		return ta.After(tb)
	})

	keep := make(map[int]bool, n)
	for _, i := range order[:n] {
		keep[i] = true
	}
	return keep
}

func keepSince(entries []atom.Entry, since time.Time) map[int]bool {
	keep := make(map[int]bool)
	for i, e := range entries {
		ts := e.Updated
		if e.Published != nil {
			ts = *e.Published
		}
		if !ts.Before(since) {
			keep[i] = true
		}
	}
	return keep
}

func strategyTime(e atom.Entry, strategy Strategy) (time.Time, bool) {
	if strategy == StrategyPublished {
		if e.Published == nil {
			return time.Time{}, false
		}
		return *e.Published, true
	}
	return e.Updated, true
}

// MergeRejects folds pruned entries into the reject document, creating it
// from the primary document's metadata when it does not exist yet. An entry
// already present in the reject document is overwritten by the incoming,
// more recently pruned version, so archival stays idempotent across repeated
// prunes. The reject document's updated timestamp is always refreshed.
func MergeRejects(reject *atom.Feed, primary *atom.Feed, removed []atom.Entry, clock Clock) *atom.Feed {
	if reject == nil {
		reject = &atom.Feed{
			Title:    primary.Title,
			ID:       rejectID(primary.ID),
			Icon:     primary.Icon,
			Logo:     primary.Logo,
			Subtitle: primary.Subtitle,
			Links:    append([]atom.Link(nil), primary.Links...),
		}
		if primary.Generator != nil {
			g := *primary.Generator
			reject.Generator = &g
		}
	}

	for _, e := range removed {
		if i := reject.FindEntry(e.ID); i >= 0 {
			reject.Entries[i] = e
		} else {
			reject.Entries = append(reject.Entries, e)
		}
	}

	reject.Updated = clock.now()
	return reject
}

// rejectID derives a reject document id from the primary feed's id, the same
// way the default reject path is derived from the feed path.
func rejectID(id string) string {
	if strings.HasSuffix(id, ".xml") {
		return strings.TrimSuffix(id, ".xml") + ".rej.xml"
	}
	return id + ".rej"
}
