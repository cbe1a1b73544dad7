// Package markdown parses checkbox task documents and rewrites checkbox
// state in place.
//
// Only three line shapes carry meaning: ATX headings, checkbox list items,
// and everything else (paragraphs). Blank lines are dropped.
package markdown

import (
	"regexp"
	"strings"
)

// Kind identifies the type of a parsed line.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindTask      Kind = "task"
	KindParagraph Kind = "paragraph"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	// taskRe captures the indentation+prefix (1), the bracket state (2), and
	// the remaining text (3). Group 1 ends right before the state byte, which
	// lets CheckLines flip it without touching anything else.
	taskRe = regexp.MustCompile(`^([ \t]*-[ \t]*\[)([x ])\][ \t]*(.+)$`)
)

// Item is a single non-blank line of a document.
type Item struct {
	// ID is assigned sequentially within one Parse call. It is not stable
	// across calls and must not be used to identify a line between parses.
	ID        int    `json:"id"`
	Kind      Kind   `json:"type"`
	Text      string `json:"text"`
	Level     int    `json:"level,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// Line is a checkbox line extracted from a document.
type Line struct {
	Text      string
	Completed bool
}

// Parse splits text into typed items in document order. Lines end at "\n",
// "\r\n", or a lone "\r". It never fails:
// anything that is not a heading or a well-formed checkbox line becomes a
// paragraph.
func Parse(text string) []Item {
	spans := splitLines(text)
	items := make([]Item, 0, len(spans))

	id := 0
	for _, span := range spans {
		line := text[span.start:span.end]
		if strings.TrimSpace(line) == "" {
			continue
		}

		item := parseLine(line)
		item.ID = id
		id++
		items = append(items, item)
	}

	return items
}

// Tasks returns only the checkbox lines of text, in document order.
func Tasks(text string) []Line {
	var out []Line
	for _, item := range Parse(text) {
		if item.Kind == KindTask {
			out = append(out, Line{Text: item.Text, Completed: item.Completed})
		}
	}
	return out
}

func parseLine(line string) Item {
	if m := headingRe.FindStringSubmatch(line); m != nil {
		if text := strings.TrimSpace(m[2]); text != "" {
			return Item{Kind: KindHeading, Level: len(m[1]), Text: text}
		}
	}

	if state, text, ok := matchTask(line); ok {
		return Item{Kind: KindTask, Completed: state == 'x', Text: text}
	}

	return Item{Kind: KindParagraph, Text: strings.TrimSpace(line)}
}

// matchTask reports whether line is a checkbox line and returns the bracket
// state byte and the trimmed task text.
func matchTask(line string) (byte, string, bool) {
	m := taskRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}

	text := strings.TrimSpace(m[3])
	if text == "" {
		return 0, "", false
	}

	return m[2][0], text, true
}

// lineSpan is the byte range of one line, excluding its terminator.
type lineSpan struct{ start, end int }

// splitLines breaks text on "\r\n", "\n", and a lone "\r". The spans index
// into text so callers can edit bytes in place.
func splitLines(text string) []lineSpan {
	var spans []lineSpan
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			spans = append(spans, lineSpan{start, i})
			start = i + 1
		case '\r':
			spans = append(spans, lineSpan{start, i})
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(spans, lineSpan{start, len(text)})
}
