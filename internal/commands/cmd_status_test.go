package commands

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/internal/tickdown"
)

func TestRenderStatus(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	stats := tickdown.Stats{Active: 3, Timered: 1, Completed: 1, Total: 4, CompletionRate: 25}

	t.Run("no timers", func(t *testing.T) {
		out := renderStatus(stats, nil)
		assert.Contains(t, out, "Active")
		assert.Contains(t, out, "25%")
		assert.Contains(t, out, "No running timers")
	})

	t.Run("with timers", func(t *testing.T) {
		timers := []tickdown.TimerStatus{{
			Task:      task.Task{Text: "water plants"},
			Progress:  50,
			Remaining: 30 * time.Minute,
		}}
		out := renderStatus(stats, timers)
		assert.Contains(t, out, "Running timers")
		assert.Contains(t, out, "water plants")
		assert.Contains(t, out, " 50%")
		assert.Contains(t, out, "30m00s left")
	})
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0m00s left", formatRemaining(0))
	assert.Equal(t, "12m05s left", formatRemaining(12*time.Minute+5*time.Second+200*time.Millisecond))
	assert.Equal(t, "60m00s left", formatRemaining(time.Hour))
}
