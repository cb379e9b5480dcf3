package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"feedkeep/internal/feed"
)

// runAdd appends one entry to the feed. The entry id and title are
// positional; --uuid mints a urn:uuid id instead, leaving only the title
// positional.
func runAdd(env *cmdEnv, args []string) error {
	fs := pflag.NewFlagSet("add", pflag.ExitOnError)
	summary := fs.StringP("summary", "s", "", "short summary of the entry")
	content := fs.StringP("content", "c", "", "full content of the entry (its source URI is the entry id)")
	contentType := fs.StringP("content-type", "T", "", `content type: "text", "html", "xhtml", or a MIME type`)
	contentLang := fs.StringP("content-language", "L", "", "language of the content, e.g. en-us")
	authorNames := fs.StringArrayP("author-name", "a", nil, "author name; repeatable, pairs up with --author-email")
	authorEmails := fs.StringArrayP("author-email", "A", nil, "author email; repeatable, pairs up with --author-name")
	publishedAt := fs.StringP("published-at", "d", "", "RFC3339 date and time the entry was published")
	updatedAt := fs.StringP("updated-at", "D", "", "RFC3339 date and time the entry was last updated (default: now)")
	mintID := fs.Bool("uuid", false, "generate a urn:uuid entry id instead of passing one")
	replace := fs.Bool("replace", false, "overwrite an existing entry with the same id")
	sanitize := fs.Bool("sanitize", false, "sanitize html content before storing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := feed.AddParams{
		Summary:      *summary,
		ContentType:  *contentType,
		ContentLang:  *contentLang,
		AuthorNames:  *authorNames,
		AuthorEmails: *authorEmails,
		PublishedAt:  *publishedAt,
		UpdatedAt:    *updatedAt,
		Replace:      *replace,
		Sanitize:     *sanitize,
	}
	switch {
	case *mintID && fs.NArg() == 1:
		params.ID = feed.MintEntryID()
		params.Title = fs.Arg(0)
	case !*mintID && fs.NArg() == 2:
		params.ID = fs.Arg(0)
		params.Title = fs.Arg(1)
	default:
		return fmt.Errorf("add wants <id> <title> (or --uuid and just <title>), got %d arguments", fs.NArg())
	}
	if fs.Changed("content") {
		params.Content = content
	}
	if len(params.AuthorNames) == 0 && !fs.Changed("author-email") {
		params.AuthorNames = env.cfg.AuthorNames
		params.AuthorEmails = env.cfg.AuthorEmails
	}

	doc, err := env.loadFeed(true)
	if err != nil {
		return err
	}
	entry, err := feed.AddEntry(doc, params, env.clock)
	if err != nil {
		return err
	}
	if err := env.saveFeed(env.file, doc); err != nil {
		return err
	}

	fmt.Printf("added %s (%s); feed now has %d entries\n", entry.ID, entry.Title, len(doc.Entries))
	return nil
}
