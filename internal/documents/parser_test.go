package documents

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractPages_CorruptBytes(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte("not a pdf at all"),
		{0x25, 0x50, 0x44, 0x46}, // truncated header
	} {
		_, err := ExtractPages(raw)
		if err == nil {
			t.Fatalf("expected error for %d bytes of garbage", len(raw))
		}
		if !errors.Is(err, ErrCorruptDocument) {
			t.Errorf("error %v should wrap ErrCorruptDocument", err)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "rent  is\n\tdue", "rent is due"},
		{"strips nul bytes", "a\x00b", "a b"},
		{"trims edges", "  hello  ", "hello"},
		{"empty stays empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalize(tc.in); got != tc.want {
				t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	t.Run("caps page length", func(t *testing.T) {
		long := strings.Repeat("a", maxPageChars+100)
		if got := len(normalize(long)); got != maxPageChars {
			t.Errorf("normalized length %d, want %d", got, maxPageChars)
		}
	})
}
