package feed

import (
	"errors"
	"strings"
	"testing"

	"feedkeep/internal/atom"
)

func TestAddEntryDefaults(t *testing.T) {
	doc := newTestFeed(t)
	entry, err := AddEntry(doc, AddParams{
		ID:    "https://example.com/posts/1.html",
		Title: "First Post",
	}, fixedClock(t1))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if !entry.Updated.Equal(t1) {
		t.Errorf("updated defaults to the clock, got %v", entry.Updated)
	}
	if entry.Published != nil {
		t.Errorf("published = %v, want unset", entry.Published)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].ID != entry.ID {
		t.Errorf("entry not appended: %+v", doc.Entries)
	}
	if !doc.Updated.Equal(t1) {
		t.Errorf("document updated = %v, want %v", doc.Updated, t1)
	}
}

func TestAddEntryAppendsInInsertionOrder(t *testing.T) {
	doc := newTestFeed(t)
	// Deliberately added newest-first; storage order must stay insertion
	// order, not sort by timestamp.
	for _, id := range []string{"https://e/3", "https://e/1", "https://e/2"} {
		if _, err := AddEntry(doc, AddParams{ID: id, Title: id, PublishedAt: "2023-0" + id[len(id)-1:] + "-01T00:00:00Z"}, fixedClock(t1)); err != nil {
			t.Fatalf("AddEntry(%s): %v", id, err)
		}
	}
	var got []string
	for _, e := range doc.Entries {
		got = append(got, e.ID)
	}
	want := "https://e/3,https://e/1,https://e/2"
	if strings.Join(got, ",") != want {
		t.Errorf("document order = %s, want %s", strings.Join(got, ","), want)
	}
}

func TestAddEntryRequiredFields(t *testing.T) {
	doc := newTestFeed(t)
	if _, err := AddEntry(doc, AddParams{Title: "no id"}, fixedClock(t1)); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("missing id: err = %v", err)
	}
	if _, err := AddEntry(doc, AddParams{ID: "https://e/1"}, fixedClock(t1)); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("missing title: err = %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("failed adds mutated the document: %+v", doc.Entries)
	}
}

func TestAddEntryAuthorPairing(t *testing.T) {
	doc := newTestFeed(t)
	before := doc.Updated

	_, err := AddEntry(doc, AddParams{
		ID:           "https://e/1",
		Title:        "E1",
		AuthorNames:  []string{"Ada", "Grace"},
		AuthorEmails: []string{"ada@example.com"},
	}, fixedClock(t1))
	if !errors.Is(err, ErrAuthorPairing) {
		t.Fatalf("err = %v, want ErrAuthorPairing", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "authors" {
		t.Errorf("error does not identify the authors field: %v", err)
	}
	if len(doc.Entries) != 0 || !doc.Updated.Equal(before) {
		t.Errorf("failed add mutated the document")
	}

	// Names without any emails are fine.
	entry, err := AddEntry(doc, AddParams{
		ID:          "https://e/1",
		Title:       "E1",
		AuthorNames: []string{"Ada", "Grace"},
	}, fixedClock(t1))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if len(entry.Authors) != 2 || entry.Authors[0] != (atom.Person{Name: "Ada"}) {
		t.Errorf("authors = %+v", entry.Authors)
	}
}

func TestAddEntryContentSourceIsEntryID(t *testing.T) {
	doc := newTestFeed(t)
	body := "full content"
	entry, err := AddEntry(doc, AddParams{
		ID:      "https://e/1",
		Title:   "E1",
		Content: &body,
	}, fixedClock(t1))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if entry.Content == nil || entry.Content.Src != entry.ID {
		t.Errorf("content source = %+v, want the entry id", entry.Content)
	}
	if entry.Content.Type.Kind != atom.KindText {
		t.Errorf("content type defaults to text, got %v", entry.Content.Type)
	}
}

func TestAddEntryValidatesContentType(t *testing.T) {
	doc := newTestFeed(t)
	body := "x"
	_, err := AddEntry(doc, AddParams{
		ID:          "https://e/1",
		Title:       "E1",
		Content:     &body,
		ContentType: "bogus",
	}, fixedClock(t1))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "content-type" {
		t.Errorf("err = %v, want a content-type validation error", err)
	}
}

func TestAddEntryValidatesTimestamps(t *testing.T) {
	doc := newTestFeed(t)
	for _, params := range []AddParams{
		{ID: "https://e/1", Title: "E1", PublishedAt: "yesterday"},
		{ID: "https://e/1", Title: "E1", UpdatedAt: "2023-13-99T00:00:00Z"},
	} {
		_, err := AddEntry(doc, params, fixedClock(t1))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("params %+v: err = %v, want validation error", params, err)
		}
	}
	if len(doc.Entries) != 0 {
		t.Errorf("failed adds mutated the document")
	}
}

func TestAddEntryDuplicateID(t *testing.T) {
	doc := newTestFeed(t)
	params := AddParams{ID: "https://e/1", Title: "E1"}
	if _, err := AddEntry(doc, params, fixedClock(t0)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := AddEntry(doc, AddParams{ID: "https://e/2", Title: "E2"}, fixedClock(t0)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	_, err := AddEntry(doc, AddParams{ID: "https://e/1", Title: "E1 again"}, fixedClock(t1))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
	if len(doc.Entries) != 2 {
		t.Errorf("duplicate add changed the entry count")
	}

	entry, err := AddEntry(doc, AddParams{ID: "https://e/1", Title: "E1 again", Replace: true}, fixedClock(t1))
	if err != nil {
		t.Fatalf("AddEntry with replace: %v", err)
	}
	if len(doc.Entries) != 2 {
		t.Errorf("replace duplicated the entry: %d entries", len(doc.Entries))
	}
	if doc.Entries[0].ID != entry.ID || doc.Entries[0].Title != "E1 again" {
		t.Errorf("replace did not overwrite in place: %+v", doc.Entries[0])
	}
}

func TestAddEntrySanitizesHTML(t *testing.T) {
	doc := newTestFeed(t)
	body := `<p>hello</p><script>alert(1)</script>`
	entry, err := AddEntry(doc, AddParams{
		ID:          "https://e/1",
		Title:       "E1",
		Content:     &body,
		ContentType: "html",
		Sanitize:    true,
	}, fixedClock(t1))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if strings.Contains(entry.Content.Body, "script") {
		t.Errorf("script tag survived sanitizing: %q", entry.Content.Body)
	}
	if !strings.Contains(entry.Content.Body, "<p>hello</p>") {
		t.Errorf("benign markup was stripped: %q", entry.Content.Body)
	}
}

func TestMintEntryID(t *testing.T) {
	id := MintEntryID()
	if !strings.HasPrefix(id, "urn:uuid:") {
		t.Errorf("id = %q, want a urn:uuid URI", id)
	}
	if id == MintEntryID() {
		t.Errorf("minted ids must not repeat")
	}
}
