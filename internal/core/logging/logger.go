// Package logging holds zerolog helpers shared by tickdown components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component derives a child of the global logger tagged cmp=name. Call it
// after the global logger is installed; the child does not follow later
// replacements.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("cmp", name).Logger()
}
