// Package extract answers analytics questions directly from the formatted
// context document, without calling any external service. It is the last rung
// of the engine's degradation ladder and always produces a non-empty answer.
package extract

import (
	"fmt"
	"strings"
)

// Section headers of the context document. Extraction is exact-string on these.
const (
	HeaderSummary    = "=== ANALYTICS SUMMARY ==="
	HeaderDiseases   = "=== DISEASE TRENDS ==="
	HeaderDoctors    = "=== DOCTOR WORKLOAD ==="
	HeaderGeographic = "=== GEOGRAPHIC DISTRIBUTION ==="
)

// Marker is appended to every keyword-matched answer so callers can tell an
// extracted answer from a generated one.
const Marker = "*Extracted from Analytics Knowledge Base*"

var allHeaders = []string{HeaderSummary, HeaderDiseases, HeaderDoctors, HeaderGeographic}

// bucket maps a topic's trigger keywords to its section and display title.
// Buckets are evaluated in this order regardless of keyword position.
type bucket struct {
	title    string
	header   string
	keywords []string
}

var buckets = []bucket{
	{"Executive Summary", HeaderSummary, []string{"summary", "overview", "total", "stats"}},
	{"Disease Analysis", HeaderDiseases, []string{"disease", "illness", "common", "prevalent", "top", "trend"}},
	{"Staff Performance", HeaderDoctors, []string{"doctor", "staff", "workload", "busy", "visit", "schedule"}},
	{"Geographic Reach", HeaderGeographic, []string{"branch", "area", "location", "city", "geographic"}},
}

// Section returns the part of doc starting at header and running to the
// nearest other known header that appears later, or to the end of the
// document. The header line itself is included. Returns "" when the header is
// absent.
func Section(doc, header string) string {
	start := strings.Index(doc, header)
	if start == -1 {
		return ""
	}

	end := len(doc)
	searchFrom := start + len(header)
	for _, h := range allHeaders {
		if h == header {
			continue
		}
		if pos := strings.Index(doc[searchFrom:], h); pos != -1 && searchFrom+pos < end {
			end = searchFrom + pos
		}
	}

	return strings.TrimSpace(doc[start:end])
}

// Answer maps (query, context document) to extracted answer text. It is
// deterministic and never returns an empty string.
func Answer(query, doc string) string {
	q := strings.ToLower(query)

	var sections []string
	for _, b := range buckets {
		if !containsAny(q, b.keywords) {
			continue
		}
		if sec := Section(doc, b.header); sec != "" {
			sections = append(sections, fmt.Sprintf("**%s**\n%s", b.title, sec))
		}
	}

	if len(sections) > 0 {
		return strings.Join(sections, "\n\n---\n\n") + "\n\n---\n" + Marker
	}

	// Generic visualization questions get overview plus trends when both exist.
	if containsAny(q, []string{"graph", "chart", "data"}) {
		summary := Section(doc, HeaderSummary)
		trends := Section(doc, HeaderDiseases)
		if summary != "" && trends != "" {
			return fmt.Sprintf("**Overview**\n%s\n\n**Trends**\n%s\n\n---\n%s", summary, trends, Marker)
		}
	}

	summary := Section(doc, HeaderSummary)
	if summary == "" {
		summary = "Data not available."
	}
	return fmt.Sprintf(`**Analytics Information**

I couldn't match your question to a specific category, but here is the general summary of our data:

%s

Try asking about:
- Disease trends
- Doctor workload
- Branch comparison`, summary)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
