// Package view turns analysis results and submission state into display
// data. Nothing here performs I/O beyond writing to a caller's io.Writer.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/resumatch/internal/domain/model"
)

// Fallback text for empty keyword lists.
const (
	NoMatchedText = "No keywords matched."
	NoMissingText = "No keywords missing from resume (based on JD)."
)

// Section is a count-labelled keyword list. When Items is empty, Empty holds
// the text shown instead of the list.
type Section struct {
	Heading string
	Items   []string
	Empty   string
}

// HasItems reports whether the list should be rendered.
func (s Section) HasItems() bool { return len(s.Items) > 0 }

// Panel is the rendered form of an AnalysisResult.
type Panel struct {
	Title   string
	Score   string // "Match Score: 78%"
	Matched Section
	Missing Section
}

// NewPanel renders r. Keyword order is kept as received.
func NewPanel(r model.AnalysisResult) Panel {
	p := Panel{
		Title: "Analysis Results",
		Score: "Match Score: " + FormatScore(r.MatchScore) + "%",
		Matched: Section{
			Heading: fmt.Sprintf("Matched Keywords (%d):", len(r.MatchedKeywords)),
			Items:   r.MatchedKeywords,
		},
		Missing: Section{
			Heading: fmt.Sprintf("Missing Keywords (%d):", len(r.MissingKeywords)),
			Items:   r.MissingKeywords,
		},
	}
	if !p.Matched.HasItems() {
		p.Matched.Empty = NoMatchedText
	}
	if !p.Missing.HasItems() {
		p.Missing.Empty = NoMissingText
	}
	return p
}

// FormatScore prints a score without trailing zeros: 78 -> "78", 66.5 -> "66.5".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// WriteText renders the panel as plain text.
func (p Panel) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(p.Title + "\n")
	b.WriteString(p.Score + "\n")
	for _, s := range []Section{p.Matched, p.Missing} {
		b.WriteString("\n" + s.Heading + "\n")
		if !s.HasItems() {
			b.WriteString(s.Empty + "\n")
			continue
		}
		for _, item := range s.Items {
			b.WriteString("  - " + item + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
