package bank

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Unit is the partition key of a question. NoUnit marks a cell that did not
// parse as an integer; such questions belong to no partition.
type Unit int

const NoUnit Unit = -1 << 31

func (u Unit) Valid() bool { return u != NoUnit }

func (u Unit) String() string {
	if !u.Valid() {
		return "none"
	}
	return strconv.Itoa(int(u))
}

func (u Unit) MarshalJSON() ([]byte, error) {
	if !u.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(u))), nil
}

func (u *Unit) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*u = NoUnit
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*u = Unit(n)
	return nil
}

// ParseUnit reads the integer prefix of s: optional leading spaces, an
// optional sign, then digits. Anything after the digits is ignored, so "2.0"
// and "3a" yield 2 and 3. No digits at all yields NoUnit.
func ParseUnit(s string) Unit {
	s = strings.TrimLeft(s, " \t\r\n")
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return NoUnit
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return NoUnit
	}
	return Unit(sign * n)
}

type Question struct {
	ID          int    `json:"id"`
	Unit        Unit   `json:"unit"`
	Question    string `json:"question,omitempty"`
	BTLevel     string `json:"btLevel,omitempty"`
	SubjectCode string `json:"subjectCode,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Regulation  string `json:"regulation,omitempty"`
	Year        string `json:"year,omitempty"`
	Semester    string `json:"semester,omitempty"`
	Month       string `json:"month,omitempty"`
}
