package markdown

import "strings"

// CheckLines flips unchecked checkbox lines to checked when shouldCheck
// returns true for their trimmed text. Only the single state byte inside the
// brackets changes; indentation, spacing, line endings, and line order are
// preserved exactly. Checked lines are never unchecked.
//
// It returns the rewritten text and the number of lines flipped.
func CheckLines(text string, shouldCheck func(text string) bool) (string, int) {
	var out []byte

	flipped := 0
	for _, span := range splitLines(text) {
		line := text[span.start:span.end]

		loc := taskRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		// loc[4] is the start of the state group.
		stateAt := loc[4]
		if line[stateAt] != ' ' {
			continue
		}

		taskText := strings.TrimSpace(line[loc[6]:loc[7]])
		if taskText == "" || !shouldCheck(taskText) {
			continue
		}

		if out == nil {
			out = []byte(text)
		}
		out[span.start+stateAt] = 'x'
		flipped++
	}

	if flipped == 0 {
		return text, 0
	}

	return string(out), flipped
}

// AppendTask appends an unchecked checkbox line for text to doc, inserting a
// separating newline when doc does not already end with one.
func AppendTask(doc, text string) string {
	line := "- [ ] " + strings.TrimSpace(text)
	if doc == "" {
		return line + "\n"
	}
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return doc + line + "\n"
}
