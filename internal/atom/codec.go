package atom

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Namespace is the Atom feed namespace the document root must carry.
const Namespace = "http://www.w3.org/2005/Atom"

// ParseError reports a structurally invalid document: a missing required
// element, a malformed timestamp, an unknown content type. It always
// identifies the offending element.
type ParseError struct {
	Element string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("atom: %s: %s", e.Element, e.Reason)
}

func parseErrf(element, format string, args ...interface{}) error {
	return &ParseError{Element: element, Reason: fmt.Sprintf(format, args...)}
}

// Marshal-side document structure. Field order here is the canonical element
// order of the serialized feed: title, id, updated, generator, icon, logo,
// subtitle, links, entries. The xml:lang attribute names are emitted
// verbatim by encoding/xml, which is exactly what we want.
type xmlFeed struct {
	XMLName   xml.Name      `xml:"feed"`
	Namespace string        `xml:"xmlns,attr"`
	Title     string        `xml:"title"`
	ID        string        `xml:"id"`
	Updated   string        `xml:"updated"`
	Generator *xmlGenerator `xml:"generator,omitempty"`
	Icon      string        `xml:"icon,omitempty"`
	Logo      string        `xml:"logo,omitempty"`
	Subtitle  string        `xml:"subtitle,omitempty"`
	Links     []xmlLink     `xml:"link"`
	Entries   []xmlEntry    `xml:"entry"`
}

type xmlGenerator struct {
	URI     string `xml:"uri,attr,omitempty"`
	Version string `xml:"version,attr,omitempty"`
	Name    string `xml:",chardata"`
}

type xmlLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr,omitempty"`
	Type  string `xml:"type,attr,omitempty"`
	Title string `xml:"title,attr,omitempty"`
	Lang  string `xml:"xml:lang,attr,omitempty"`
}

type xmlEntry struct {
	Title        string      `xml:"title"`
	ID           string      `xml:"id"`
	Updated      string      `xml:"updated"`
	Summary      string      `xml:"summary,omitempty"`
	Content      *xmlContent `xml:"content,omitempty"`
	Contributors []xmlPerson `xml:"contributor"`
	Published    string      `xml:"published,omitempty"`
}

type xmlContent struct {
	Type string `xml:"type,attr"`
	Lang string `xml:"xml:lang,attr,omitempty"`
	Src  string `xml:"src,attr,omitempty"`
	Body string `xml:",chardata"`
}

type xmlPerson struct {
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
}

// Unmarshal-side mirror of the document. Unqualified element and attribute
// names match regardless of namespace prefix, so xml:lang decodes through
// the plain "lang" attribute tag.
type docFeed struct {
	XMLName   xml.Name      `xml:"feed"`
	Title     string        `xml:"title"`
	ID        string        `xml:"id"`
	Updated   string        `xml:"updated"`
	Generator *docGenerator `xml:"generator"`
	Icon      string        `xml:"icon"`
	Logo      string        `xml:"logo"`
	Subtitle  string        `xml:"subtitle"`
	Links     []docLink     `xml:"link"`
	Entries   []docEntry    `xml:"entry"`
}

type docGenerator struct {
	URI     string `xml:"uri,attr"`
	Version string `xml:"version,attr"`
	Name    string `xml:",chardata"`
}

type docLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
	Lang  string `xml:"lang,attr"`
}

type docEntry struct {
	Title        string      `xml:"title"`
	ID           string      `xml:"id"`
	Updated      string      `xml:"updated"`
	Summary      string      `xml:"summary"`
	Content      *docContent `xml:"content"`
	Contributors []docPerson `xml:"contributor"`
	Published    string      `xml:"published"`
}

type docContent struct {
	Type string `xml:"type,attr"`
	Lang string `xml:"lang,attr"`
	Src  string `xml:"src,attr"`
	Body string `xml:",chardata"`
}

type docPerson struct {
	Name  string `xml:"name"`
	Email string `xml:"email"`
}

// Decode parses raw document bytes into a Feed. Structural problems (wrong
// root, missing required elements, malformed timestamps, unknown content
// types) come back as *ParseError.
func Decode(data []byte) (*Feed, error) {
	var doc docFeed
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, parseErrf("feed", "malformed document: %v", err)
	}
	if doc.XMLName.Space != Namespace {
		return nil, parseErrf("feed", "root element does not carry the Atom namespace %s", Namespace)
	}
	if doc.Title == "" {
		return nil, parseErrf("feed/title", "missing or empty")
	}
	if doc.ID == "" {
		return nil, parseErrf("feed/id", "missing or empty")
	}
	updated, err := decodeTime("feed/updated", doc.Updated, true)
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		Title:    doc.Title,
		ID:       doc.ID,
		Updated:  *updated,
		Icon:     doc.Icon,
		Logo:     doc.Logo,
		Subtitle: doc.Subtitle,
	}
	if doc.Generator != nil {
		feed.Generator = &Generator{
			Name:    doc.Generator.Name,
			URI:     doc.Generator.URI,
			Version: doc.Generator.Version,
		}
	}
	for _, l := range doc.Links {
		if l.Href == "" {
			return nil, parseErrf("feed/link", "missing href attribute")
		}
		feed.Links = append(feed.Links, Link{
			Href:  l.Href,
			Rel:   l.Rel,
			Type:  l.Type,
			Title: l.Title,
			Lang:  l.Lang,
		})
	}
	for i, e := range doc.Entries {
		entry, err := decodeEntry(i, e)
		if err != nil {
			return nil, err
		}
		feed.Entries = append(feed.Entries, *entry)
	}
	return feed, nil
}

func decodeEntry(i int, e docEntry) (*Entry, error) {
	where := fmt.Sprintf("entry[%d]", i)
	if e.ID == "" {
		return nil, parseErrf(where+"/id", "missing or empty")
	}
	if e.Title == "" {
		return nil, parseErrf(where+"/title", "missing or empty")
	}
	updated, err := decodeTime(where+"/updated", e.Updated, true)
	if err != nil {
		return nil, err
	}
	published, err := decodeTime(where+"/published", e.Published, false)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        e.ID,
		Title:     e.Title,
		Summary:   e.Summary,
		Published: published,
		Updated:   *updated,
	}
	if e.Content != nil {
		typ := e.Content.Type
		if typ == "" {
			typ = "text" // Atom's default
		}
		ct, err := ParseContentType(typ)
		if err != nil {
			return nil, parseErrf(where+"/content", "%v", err)
		}
		entry.Content = &Content{
			Body: e.Content.Body,
			Type: ct,
			Lang: e.Content.Lang,
			Src:  e.Content.Src,
		}
	}
	for _, p := range e.Contributors {
		if p.Name == "" {
			return nil, parseErrf(where+"/contributor/name", "missing or empty")
		}
		entry.Authors = append(entry.Authors, Person{Name: p.Name, Email: p.Email})
	}
	return entry, nil
}

func decodeTime(element, value string, required bool) (*time.Time, error) {
	if value == "" {
		if required {
			return nil, parseErrf(element, "missing timestamp")
		}
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, parseErrf(element, "malformed RFC3339 timestamp %q", value)
	}
	return &t, nil
}

// Encode serializes a Feed into canonical XML. Elements appear in fixed
// order, every text node is entity-escaped, and timestamps keep whatever
// sub-second precision they were captured with.
func Encode(f *Feed) ([]byte, error) {
	doc := xmlFeed{
		Namespace: Namespace,
		Title:     f.Title,
		ID:        f.ID,
		Updated:   encodeTime(f.Updated),
		Icon:      f.Icon,
		Logo:      f.Logo,
		Subtitle:  f.Subtitle,
	}
	if f.Generator != nil {
		doc.Generator = &xmlGenerator{
			URI:     f.Generator.URI,
			Version: f.Generator.Version,
			Name:    f.Generator.Name,
		}
	}
	for _, l := range f.Links {
		doc.Links = append(doc.Links, xmlLink{
			Href:  l.Href,
			Rel:   l.Rel,
			Type:  l.Type,
			Title: l.Title,
			Lang:  l.Lang,
		})
	}
	for _, e := range f.Entries {
		xe := xmlEntry{
			Title:   e.Title,
			ID:      e.ID,
			Updated: encodeTime(e.Updated),
			Summary: e.Summary,
		}
		if e.Published != nil {
			xe.Published = encodeTime(*e.Published)
		}
		if e.Content != nil {
			xe.Content = &xmlContent{
				Type: e.Content.Type.String(),
				Lang: e.Content.Lang,
				Src:  e.Content.Src,
				Body: e.Content.Body,
			}
		}
		for _, p := range e.Authors {
			xe.Contributors = append(xe.Contributors, xmlPerson{Name: p.Name, Email: p.Email})
		}
		doc.Entries = append(doc.Entries, xe)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("atom: encoding feed: %w", err)
	}
	return append(append([]byte(xml.Header), out...), '\n'), nil
}

func encodeTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
