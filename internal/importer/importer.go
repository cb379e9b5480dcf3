// Package importer converts a local RSS, Atom, or JSON feed file into
// entries of the primary document. There is no network involved: the input
// is raw bytes already on disk.
package importer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"feedkeep/internal/atom"
	"feedkeep/internal/feed"
)

// summaryLimit caps summaries extracted from HTML content.
const summaryLimit = 200

// Options control an import run.
type Options struct {
	// Sanitize runs imported html content through the UGC sanitizing policy.
	Sanitize bool
	// Replace overwrites entries whose id collides with an imported item.
	Replace bool
}

// Result summarizes an import run.
type Result struct {
	Added   int
	Skipped int
}

// ImportFile parses the feed file at path and adds its items to doc through
// the entry-addition engine, so all of its validation applies. Items without
// a usable id or title, and duplicates when Replace is off, are skipped and
// logged rather than aborting the run.
func ImportFile(doc *atom.Feed, path string, opts Options, clock feed.Clock, logger *log.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	result := &Result{}
	for _, item := range parsed.Items {
		params, ok := itemParams(item, opts)
		if !ok {
			logger.Printf("skipping item without id or title: %q", item.Title)
			result.Skipped++
			continue
		}
		if _, err := feed.AddEntry(doc, params, clock); err != nil {
			if errors.Is(err, feed.ErrDuplicateID) {
				logger.Printf("skipping duplicate entry %s", params.ID)
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("importing %s: %w", params.ID, err)
		}
		result.Added++
	}
	return result, nil
}

func itemParams(item *gofeed.Item, opts Options) (feed.AddParams, bool) {
	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if id == "" || item.Title == "" {
		return feed.AddParams{}, false
	}

	params := feed.AddParams{
		ID:       id,
		Title:    item.Title,
		Summary:  item.Description,
		Replace:  opts.Replace,
		Sanitize: opts.Sanitize,
	}
	if item.Content != "" {
		content := item.Content
		params.Content = &content
		params.ContentType = "html"
		if params.Summary == "" {
			params.Summary = truncate(htmlText(content), summaryLimit)
		}
	}
	for _, a := range item.Authors {
		if a == nil || a.Name == "" {
			continue
		}
		params.AuthorNames = append(params.AuthorNames, a.Name)
		params.AuthorEmails = append(params.AuthorEmails, a.Email)
	}
	if allEmpty(params.AuthorEmails) {
		params.AuthorEmails = nil
	}
	if item.PublishedParsed != nil {
		params.PublishedAt = item.PublishedParsed.Format(time.RFC3339)
	}
	if item.UpdatedParsed != nil {
		params.UpdatedAt = item.UpdatedParsed.Format(time.RFC3339)
	} else if item.PublishedParsed != nil {
		params.UpdatedAt = item.PublishedParsed.Format(time.RFC3339)
	}
	return params, true
}

// htmlText extracts the visible text of an HTML fragment, for building a
// summary when the source item carries only full content.
func htmlText(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func allEmpty(ss []string) bool {
	for _, s := range ss {
		if s != "" {
			return false
		}
	}
	return true
}
