// Package atom holds the in-memory model of an Atom feed document and the
// codec that moves it to and from XML.
package atom

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// Feed is the root aggregate: all metadata plus all entries, in document
// order. Title and ID are non-empty for any document this tool has written.
type Feed struct {
	Title     string
	ID        string
	Updated   time.Time
	Generator *Generator
	Icon      string
	Logo      string
	Subtitle  string
	Links     []Link
	Entries   []Entry
}

// Generator identifies the tool that produced the feed.
type Generator struct {
	Name    string
	URI     string
	Version string
}

// Link is a feed-level related link. Only Href is required.
type Link struct {
	Href  string
	Rel   string
	Type  string
	Title string
	Lang  string
}

// IsSelf reports whether the link is the feed's reserved self-reference.
// Link removal preserves self links; see the metadata engine.
func (l Link) IsSelf() bool {
	return l.Rel == "self"
}

// Entry is one article in the feed, keyed by ID (a URI, unique within the
// document).
type Entry struct {
	ID        string
	Title     string
	Summary   string
	Content   *Content
	Authors   []Person
	Published *time.Time
	Updated   time.Time
}

// Content is an entry's full body. Src is always the owning entry's ID.
type Content struct {
	Body string
	Type ContentType
	Lang string
	Src  string
}

// Person is an entry author. Addressable only through Entry.Authors.
type Person struct {
	Name  string
	Email string
}

// ContentKind enumerates the closed content-type variants. KindMIME carries
// an arbitrary (syntactically valid) MIME type in ContentType.MIME.
type ContentKind int

const (
	KindText ContentKind = iota
	KindHTML
	KindXHTML
	KindMIME
)

// ContentType is a tagged union over the three Atom literal content types
// plus a free-form MIME type. Construct via ParseContentType so invalid
// literals are rejected up front rather than at serialization time.
type ContentType struct {
	Kind ContentKind
	MIME string
}

// ParseContentType validates and converts a content-type argument. Accepts
// "text", "html", "xhtml", or any syntactically valid MIME type string.
func ParseContentType(s string) (ContentType, error) {
	switch s {
	case "text":
		return ContentType{Kind: KindText}, nil
	case "html":
		return ContentType{Kind: KindHTML}, nil
	case "xhtml":
		return ContentType{Kind: KindXHTML}, nil
	}
	if strings.Contains(s, "/") {
		if _, _, err := mime.ParseMediaType(s); err == nil {
			return ContentType{Kind: KindMIME, MIME: s}, nil
		}
	}
	return ContentType{}, fmt.Errorf("unknown content type %q: must be text, html, xhtml, or a MIME type", s)
}

// String returns the wire form used in the content element's type attribute.
func (c ContentType) String() string {
	switch c.Kind {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	case KindXHTML:
		return "xhtml"
	default:
		return c.MIME
	}
}

// FindEntry returns the index of the entry with the given id, or -1.
func (f *Feed) FindEntry(id string) int {
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// FindLink returns the index of the link with the given href, or -1.
func (f *Feed) FindLink(href string) int {
	for i := range f.Links {
		if f.Links[i].Href == href {
			return i
		}
	}
	return -1
}
