package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"feedkeep/internal/atom"
)

// AddParams describes a new entry. ID and Title are required; everything
// else is optional. Timestamps arrive as RFC3339 strings and are validated
// here, not by the caller.
type AddParams struct {
	ID    string
	Title string

	Summary string

	// Content is the entry's full body; nil means no content element. When
	// present its source URI is implicitly the entry's ID.
	Content     *string
	ContentType string // "text", "html", "xhtml", or a MIME type; defaults to text
	ContentLang string

	// Positionally paired author lists. Emails may be omitted entirely.
	AuthorNames  []string
	AuthorEmails []string

	PublishedAt string // optional RFC3339
	UpdatedAt   string // optional RFC3339; defaults to the clock's now

	// Replace overwrites an existing entry with the same id in place instead
	// of failing with ErrDuplicateID.
	Replace bool

	// Sanitize runs html content through a UGC sanitizing policy before it
	// is stored.
	Sanitize bool
}

// MintEntryID generates a urn:uuid entry id for callers that do not have a
// natural URI for the entry.
func MintEntryID() string {
	return "urn:uuid:" + uuid.NewString()
}

// AddEntry validates p, constructs the entry, and inserts it into doc.
// Validation is all-or-nothing: the document is untouched unless every check
// passes. The entry is appended, so document order is insertion order; any
// ordering for display or pruning is computed separately.
func AddEntry(doc *atom.Feed, p AddParams, clock Clock) (*atom.Entry, error) {
	if p.ID == "" {
		return nil, invalidf("id", ErrMissingRequired, "entry id must not be empty")
	}
	if p.Title == "" {
		return nil, invalidf("title", ErrMissingRequired, "entry title must not be empty")
	}

	var content *atom.Content
	if p.Content != nil {
		typ := p.ContentType
		if typ == "" {
			typ = "text"
		}
		ct, err := atom.ParseContentType(typ)
		if err != nil {
			return nil, invalidf("content-type", nil, "%v", err)
		}
		body := *p.Content
		if p.Sanitize && ct.Kind == atom.KindHTML {
			body = bluemonday.UGCPolicy().Sanitize(body)
		}
		content = &atom.Content{
			Body: body,
			Type: ct,
			Lang: p.ContentLang,
			Src:  p.ID,
		}
	}

	authors, err := pairAuthors(p.AuthorNames, p.AuthorEmails)
	if err != nil {
		return nil, err
	}

	now := clock.now()
	var publishedAt *time.Time
	if p.PublishedAt != "" {
		t, err := parseTimestamp("published-at", p.PublishedAt)
		if err != nil {
			return nil, err
		}
		publishedAt = &t
	}
	updatedAt := now
	if p.UpdatedAt != "" {
		t, err := parseTimestamp("updated-at", p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		updatedAt = t
	}

	entry := atom.Entry{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   content,
		Authors:   authors,
		Published: publishedAt,
		Updated:   updatedAt,
	}

	if i := doc.FindEntry(p.ID); i >= 0 {
		if !p.Replace {
			return nil, invalidf("id", ErrDuplicateID,
				"entry %q already exists (use replace to overwrite)", p.ID)
		}
		doc.Entries[i] = entry
	} else {
		doc.Entries = append(doc.Entries, entry)
	}

	doc.Updated = now
	return &entry, nil
}
