package atom

import (
	"strings"
	"testing"
)

func TestFormatLink(t *testing.T) {
	tests := []struct {
		name string
		link Link
		want string
	}{
		{
			name: "all fields in fixed order",
			link: Link{Href: "https://example.com/feed.xml", Rel: "self", Type: "application/atom+xml", Title: "An example feed", Lang: "en-us"},
			want: "https://example.com/feed.xml[rel=self][type=application/atom+xml][title=An example feed][lang=en-us]",
		},
		{
			name: "href only",
			link: Link{Href: "https://example.com/feed.xml"},
			want: "https://example.com/feed.xml",
		},
		{
			name: "subset omits absent fields",
			link: Link{Href: "https://example.com/feed.xml", Rel: "self", Title: "An example feed"},
			want: "https://example.com/feed.xml[rel=self][title=An example feed]",
		},
		{
			name: "brackets in value are escaped",
			link: Link{Href: "https://example.com/feed.xml", Title: "notes [draft]"},
			want: `https://example.com/feed.xml[title=notes \[draft\]]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLink(tt.link); got != tt.want {
				t.Errorf("FormatLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLink(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Link
	}{
		{
			name:  "canonical order",
			input: "https://example.com/feed.xml[rel=self][type=application/atom+xml][title=An example feed][lang=en-us]",
			want:  Link{Href: "https://example.com/feed.xml", Rel: "self", Type: "application/atom+xml", Title: "An example feed", Lang: "en-us"},
		},
		{
			name:  "reversed order",
			input: "https://example.com/feed.xml[lang=en-us][title=An example feed][type=application/atom+xml][rel=self]",
			want:  Link{Href: "https://example.com/feed.xml", Rel: "self", Type: "application/atom+xml", Title: "An example feed", Lang: "en-us"},
		},
		{
			name:  "subset",
			input: "https://example.com/feed.xml[lang=fr-ca]",
			want:  Link{Href: "https://example.com/feed.xml", Lang: "fr-ca"},
		},
		{
			name:  "no suffixes",
			input: "https://example.com/feed.xml",
			want:  Link{Href: "https://example.com/feed.xml"},
		},
		{
			name:  "value with equals sign",
			input: "https://example.com/[title=a=b]",
			want:  Link{Href: "https://example.com/", Title: "a=b"},
		},
		{
			name:  "escaped brackets in href and value",
			input: `https://example.com/a\[1\][title=notes \[draft\]]`,
			want:  Link{Href: "https://example.com/a[1]", Title: "notes [draft]"},
		},
		{
			name:  "utf-8 value",
			input: "https://example.com/[title=Détroit de Haro – Météo maritime]",
			want:  Link{Href: "https://example.com/", Title: "Détroit de Haro – Météo maritime"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLink(tt.input)
			if err != nil {
				t.Fatalf("ParseLink(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLink(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLinkErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unrecognized key", "https://example.com/[foo=bar]"},
		{"empty key", "https://example.com/[=bar]"},
		{"bare bracket pair", "https://example.com/[]"},
		{"key without value separator", "https://example.com/[title]"},
		{"unterminated suffix", "https://example.com/[rel=self"},
		{"nested bracket", "https://example.com/[title=a[b]]"},
		{"unescaped closing bracket in url", "https://example.com/feed.xml]"},
		{"trailing text after suffix", "https://example.com/[rel=self]tail"},
		{"duplicate key", "https://example.com/[rel=self][rel=alternate]"},
		{"empty input", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLink(tt.input); err == nil {
				t.Errorf("ParseLink(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestLinkAnnotationRoundTrip(t *testing.T) {
	links := []Link{
		{Href: "https://example.com/feed.xml"},
		{Href: "https://example.com/feed.xml", Rel: "self"},
		{Href: "https://example.com/feed.xml", Rel: "alternate", Type: "text/html", Title: "Home", Lang: "en"},
		{Href: "https://example.com/a[1]", Title: "with ] and [ inside"},
		{Href: "https://example.com/", Title: `backslash \ value`},
	}
	for _, link := range links {
		got, err := ParseLink(FormatLink(link))
		if err != nil {
			t.Fatalf("round trip of %+v: %v", link, err)
		}
		if got != link {
			t.Errorf("round trip of %+v came back as %+v", link, got)
		}
	}
}

func TestFormatLinkStable(t *testing.T) {
	// Suffix order is fixed regardless of how the link was built.
	link := Link{Href: "https://e/", Lang: "en", Rel: "self"}
	out := FormatLink(link)
	if strings.Index(out, "[rel=") > strings.Index(out, "[lang=") {
		t.Errorf("rel must precede lang in %q", out)
	}
}
