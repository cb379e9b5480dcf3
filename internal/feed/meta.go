package feed

import (
	"fmt"
	"strings"
	"time"

	"feedkeep/internal/atom"
)

// Tool identity written into the feed's generator block.
var (
	GeneratorName    = "feedkeep"
	GeneratorURI     = "https://github.com/feedkeep/feedkeep"
	GeneratorVersion = "dev" // overwritten at build time
)

// MetaParams is a sparse set of metadata changes. A nil pointer leaves the
// field alone; a Remove flag clears it, unless a new value for the same
// field is supplied in the same call, in which case the value wins.
type MetaParams struct {
	Title *string
	URI   *string

	Subtitle       *string
	RemoveSubtitle bool

	Icon       *string
	RemoveIcon bool

	Logo       *string
	RemoveLogo bool

	// Links are added or updated in place (matched by href). RemoveLinks
	// together with Links replaces the whole link set; RemoveLinks alone
	// clears everything except the feed's self links.
	Links       []atom.Link
	RemoveLinks bool

	// NoGenerator removes the generator block instead of (re)stamping it.
	NoGenerator bool
}

// ApplyMeta applies a metadata mutation to doc and returns the resulting
// document. A nil doc means the document does not exist yet; in that case
// Title and URI are both required and a fresh document is created. Supplied
// Title and URI values must be non-empty, whether creating or updating. Every
// successful call refreshes the document's updated timestamp, whether or
// not any field changed.
func ApplyMeta(doc *atom.Feed, p MetaParams, clock Clock) (*atom.Feed, error) {
	// Title and ID stay non-empty for the document's whole life; an empty
	// value would produce a file our own decoder rejects.
	if p.Title != nil && *p.Title == "" {
		return nil, invalidf("title", ErrMissingRequired, "feed title must not be empty")
	}
	if p.URI != nil && *p.URI == "" {
		return nil, invalidf("uri", ErrMissingRequired, "feed uri must not be empty")
	}
	if doc == nil {
		if p.Title == nil || p.URI == nil {
			return nil, invalidf("metadata", ErrMissingRequired,
				"title and uri must both be set when creating a new feed")
		}
		doc = &atom.Feed{}
	}

	if p.Title != nil {
		doc.Title = *p.Title
	}
	if p.URI != nil {
		doc.ID = *p.URI
	}

	if p.Subtitle != nil {
		doc.Subtitle = *p.Subtitle
	} else if p.RemoveSubtitle {
		doc.Subtitle = ""
	}

	if p.Icon != nil {
		doc.Icon = *p.Icon
	} else if p.RemoveIcon {
		doc.Icon = ""
	}

	if p.Logo != nil {
		doc.Logo = *p.Logo
	} else if p.RemoveLogo {
		doc.Logo = ""
	}

	if p.RemoveLinks {
		if len(p.Links) > 0 {
			doc.Links = nil
		} else {
			var kept []atom.Link
			for _, l := range doc.Links {
				if l.IsSelf() {
					kept = append(kept, l)
				}
			}
			doc.Links = kept
		}
	}
	for _, l := range p.Links {
		if i := doc.FindLink(l.Href); i >= 0 {
			doc.Links[i] = l
		} else {
			doc.Links = append(doc.Links, l)
		}
	}

	if p.NoGenerator {
		doc.Generator = nil
	} else {
		doc.Generator = &atom.Generator{
			Name:    GeneratorName,
			URI:     GeneratorURI,
			Version: GeneratorVersion,
		}
	}

	doc.Updated = clock.now()
	return doc, nil
}

// MetaSummary renders the metadata block in the line-per-field form printed
// after every meta call. Links appear in annotation syntax.
func MetaSummary(f *atom.Feed) string {
	var b strings.Builder
	fmt.Fprintf(&b, "title=%s\n", f.Title)
	if f.Subtitle != "" {
		fmt.Fprintf(&b, "subtitle=%s\n", f.Subtitle)
	}
	fmt.Fprintf(&b, "uri=%s\n", f.ID)
	fmt.Fprintf(&b, "updated_at=%s\n", f.Updated.Format(time.RFC3339Nano))
	if f.Icon != "" {
		fmt.Fprintf(&b, "icon=%s\n", f.Icon)
	}
	if f.Logo != "" {
		fmt.Fprintf(&b, "logo=%s\n", f.Logo)
	}
	for _, l := range f.Links {
		fmt.Fprintf(&b, "link=%s\n", atom.FormatLink(l))
	}
	return strings.TrimRight(b.String(), "\n")
}
