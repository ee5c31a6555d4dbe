package paper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
)

var (
	ErrBankAbsent      = errors.New("no questions available, upload an Excel file first")
	ErrMissingMainUnit = errors.New("main unit not specified for special mid")
	ErrUnknownType     = errors.New("invalid paper type")
)

// Shortage is one partition that cannot cover its quota.
type Shortage struct {
	Units  []bank.Unit
	Others bool
	Need   int
	Have   int
}

func (s Shortage) String() string {
	var name string
	switch {
	case s.Others:
		name = "other units"
	case len(s.Units) == 1:
		name = fmt.Sprintf("Unit %d", s.Units[0])
	default:
		parts := make([]string, len(s.Units))
		for i, u := range s.Units {
			parts[i] = fmt.Sprintf("Unit %d", u)
		}
		name = strings.Join(parts, " + ")
	}
	return fmt.Sprintf("%s (need %d, have %d)", name, s.Need, s.Have)
}

type ShortfallError struct {
	Type      Type
	Shortages []Shortage
}

func (e *ShortfallError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = s.String()
	}
	return "insufficient questions in " + strings.Join(parts, ", ")
}

// Mentions reports whether unit u is named by any shortage.
func (e *ShortfallError) Mentions(u bank.Unit) bool {
	for _, s := range e.Shortages {
		for _, x := range s.Units {
			if x == u && !s.Others {
				return true
			}
		}
	}
	return false
}

// IsClientError reports whether err is one the caller can fix by changing
// the request or uploading a different bank.
func IsClientError(err error) bool {
	var se *ShortfallError
	return errors.Is(err, ErrBankAbsent) ||
		errors.Is(err, ErrMissingMainUnit) ||
		errors.Is(err, ErrUnknownType) ||
		errors.As(err, &se)
}
