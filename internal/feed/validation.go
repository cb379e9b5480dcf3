package feed

import (
	"errors"
	"fmt"
	"time"

	"feedkeep/internal/atom"
)

var (
	// ErrDuplicateID means an added entry's id collides with an existing
	// entry and no replace was requested.
	ErrDuplicateID = errors.New("duplicate entry id")
	// ErrAuthorPairing means the author name and email lists differ in length.
	ErrAuthorPairing = errors.New("author names and emails must pair up")
	// ErrMissingRequired means a first-write required field was not supplied.
	ErrMissingRequired = errors.New("missing required field")
)

// ValidationError reports caller-supplied arguments that violate an engine
// precondition. It always names the offending field, and no mutation is
// applied when one is returned.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalidf(field string, err error, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...), Err: err}
}

// parseTimestamp validates an RFC3339 timestamp argument.
func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalidf(field, nil, "%q is not an RFC3339 timestamp", value)
	}
	return t, nil
}

// pairAuthors builds the author sequence from positionally paired name and
// email lists. Emails may be omitted entirely; otherwise the lists must have
// equal length.
func pairAuthors(names, emails []string) ([]atom.Person, error) {
	if len(emails) > 0 && len(emails) != len(names) {
		return nil, invalidf("authors", ErrAuthorPairing,
			"got %d names and %d emails", len(names), len(emails))
	}
	authors := make([]atom.Person, 0, len(names))
	for i, name := range names {
		p := atom.Person{Name: name}
		if len(emails) > 0 {
			p.Email = emails[i]
		}
		authors = append(authors, p)
	}
	return authors, nil
}
