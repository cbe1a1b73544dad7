// Package doctor runs health checks over a tickdown installation. Each check
// reports one item per finding so a single bad document or overdue timer
// does not hide the others.
package doctor

import "context"

type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "pass"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckItem is one finding. Fixable items can be repaired by running the
// checks again with autofix enabled.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs checks in order.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		results = append(results, check.Run(ctx))
	}
	return results
}

// Tally counts items by status across results.
type Tally struct {
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Fixable int `json:"fixable"`
}

func (t Tally) Healthy() bool { return t.Failed == 0 }

func Count(results []Result) Tally {
	var t Tally
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				t.Passed++
				continue
			case StatusWarn:
				t.Warned++
			case StatusFail:
				t.Failed++
			}
			if item.Fixable {
				t.Fixable++
			}
		}
	}
	return t
}
