package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
)

// MaxTextLength bounds the length of a task's text in runes.
const MaxTextLength = 1000

// ValidateText checks a task's display text.
func ValidateText(text string) error {
	switch {
	case strings.TrimSpace(text) == "":
		return errors.New("cannot be empty")
	case text != strings.TrimSpace(text):
		return errors.New("must not have leading or trailing whitespace")
	case strings.ContainsAny(text, "\r\n"):
		return errors.New("must be a single line")
	case utf8.RuneCountInString(text) > MaxTextLength:
		return fmt.Errorf("must be at most %d characters", MaxTextLength)
	}
	return nil
}

// Validate checks new task fields against the lifecycle invariants.
func (f Fields) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := ValidateText(f.Text); err != nil {
		errs = errs.Append("text", err)
	}

	switch {
	case f.CheckedAt != nil && !f.Completed:
		errs = errs.Append("checked_at", errors.New("requires completed to be true"))
	case f.CheckedAt == nil && f.Completed:
		errs = errs.Append("checked_at", errors.New("required when completed is true"))
	}

	if f.CompletedAt != nil {
		switch {
		case f.CheckedAt == nil:
			errs = errs.Append("completed_at", errors.New("requires checked_at"))
		case f.CompletedAt.Before(*f.CheckedAt):
			errs = errs.Append("completed_at", errors.New("must not be before checked_at"))
		}
	}

	return invalid(errs.ToError())
}

// Validate checks the fields a patch sets.
func (p Patch) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if p.Text != nil {
		if err := ValidateText(*p.Text); err != nil {
			errs = errs.Append("text", err)
		}
	}

	if p.CheckedAt.Op == TimeClear && p.CompletedAt.Op != TimeClear && p.CompletedAt.Op != TimeKeep {
		errs = errs.Append("completed_at", errors.New("cannot be set while clearing checked_at"))
	}

	if p.CheckedAt.Op == TimeSet && p.CompletedAt.Op == TimeSet && p.CompletedAt.Time.Before(p.CheckedAt.Time) {
		errs = errs.Append("completed_at", errors.New("must not be before checked_at"))
	}

	return invalid(errs.ToError())
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}
