package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/tickdown/internal/core/markdown"
	"github.com/hay-kot/tickdown/internal/core/task"
)

// DocumentsCheck verifies configured markdown documents resolve, are
// readable, and hold only checkbox lines the store would accept.
type DocumentsCheck struct {
	patterns []string
}

// NewDocumentsCheck creates a new documents check.
func NewDocumentsCheck(patterns []string) *DocumentsCheck {
	return &DocumentsCheck{patterns: patterns}
}

func (c *DocumentsCheck) Name() string {
	return "Documents"
}

func (c *DocumentsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if len(c.patterns) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "documents",
			Status: StatusPass,
			Detail: "none configured",
		})
		return result
	}

	for _, pattern := range c.patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			result.Items = append(result.Items, CheckItem{Label: pattern, Status: StatusFail, Detail: err.Error()})
			continue
		}
		if len(matches) == 0 {
			result.Items = append(result.Items, CheckItem{Label: pattern, Status: StatusWarn, Detail: "matches no files"})
			continue
		}

		for _, path := range matches {
			result.Items = append(result.Items, checkDocument(path))
		}
	}

	return result
}

func checkDocument(path string) CheckItem {
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckItem{Label: path, Status: StatusFail, Detail: fmt.Sprintf("unreadable: %v", err)}
	}

	lines := markdown.Tasks(string(data))
	invalid := 0
	for _, l := range lines {
		if task.ValidateText(l.Text) != nil {
			invalid++
		}
	}

	if invalid > 0 {
		return CheckItem{
			Label:  path,
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d of %d checkbox lines are invalid and block reconciliation", invalid, len(lines)),
		}
	}

	return CheckItem{Label: path, Status: StatusPass, Detail: fmt.Sprintf("%d checkbox lines", len(lines))}
}
