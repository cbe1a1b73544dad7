package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (c staticCheck) Name() string { return c.name }

func (c staticCheck) Run(context.Context) Result {
	return Result{Name: c.name, Items: c.items}
}

func TestRunAll_KeepsOrder(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "first"},
		staticCheck{name: "second", items: []CheckItem{{Label: "x", Status: StatusWarn}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Name)
	assert.Equal(t, StatusWarn, results[1].Items[0].Status)
}

func TestCheckItem_JSONStatus(t *testing.T) {
	bits, err := json.Marshal(CheckItem{Label: "db", Status: StatusFail})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"db","status":"fail"}`, string(bits))
}

func TestCount(t *testing.T) {
	results := []Result{
		{Items: []CheckItem{
			{Status: StatusPass},
			{Status: StatusWarn, Fixable: true},
			{Status: StatusFail},
			{Status: StatusPass, Fixable: true},
		}},
		{Items: []CheckItem{{Status: StatusFail, Fixable: true}}},
	}

	got := Count(results)
	assert.Equal(t, Tally{Passed: 2, Warned: 1, Failed: 2, Fixable: 2}, got)
	assert.False(t, got.Healthy())
	assert.True(t, Count(results[:0]).Healthy())
}
