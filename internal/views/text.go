package views

import (
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var stripPolicy = bluemonday.StrictPolicy()

// Search returns a predicate matching items where any field contains query,
// compared with Unicode case folding. A blank query matches everything.
func Search[T any](query string, fields func(T) []string) Predicate[T] {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := fold(query)

	return func(item T) bool {
		for _, field := range fields(item) {
			if strings.Contains(fold(field), needle) {
				return true
			}
		}
		return false
	}
}

func fold(s string) string {
	// Casers carry state and are not safe for concurrent use.
	return cases.Fold().String(s)
}

// Label renders an enum value such as "in_progress" as "In Progress".
func Label(value string) string {
	if value == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(value, "_", " "))
}

// PlainText strips markup from user-submitted HTML, unescapes entities and
// collapses whitespace.
func PlainText(body string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(body))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns at most n runes of the plain text of body, ending with an
// ellipsis when truncated.
func Excerpt(body string, n int) string {
	text := []rune(PlainText(body))
	if n <= 0 || len(text) <= n {
		return string(text)
	}
	return strings.TrimSpace(string(text[:n])) + "…"
}

// Ago renders t relative to now, e.g. "3 days ago". Zero times render as "never".
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Percent renders a progress value in [0, 100].
func Percent(p float64) string {
	return humanize.FtoaWithDigits(clamp(p, 0, 100), 1) + "%"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
