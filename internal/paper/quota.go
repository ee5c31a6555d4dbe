package paper

import "github.com/mind-engage/mindengage-qpaper/internal/bank"

type Type string

const (
	Mid1    Type = "mid1"
	Mid2    Type = "mid2"
	Special Type = "special"
)

// step draws Count questions from the union of Units, or, when Others is
// set, from every valid unit not in Units.
type step struct {
	Units  []bank.Unit
	Others bool
	Count  int
}

type policy struct {
	steps   []step
	shuffle bool
}

// Every step filters the whole bank on its own. The last step of mid1 and
// mid2 draws from two units pooled together and does not exclude questions
// the earlier steps already picked, so a paper can repeat one.
var fixedPolicies = map[Type]policy{
	Mid1: {steps: []step{
		{Units: []bank.Unit{1}, Count: 2},
		{Units: []bank.Unit{2}, Count: 2},
		{Units: []bank.Unit{3}, Count: 1},
		{Units: []bank.Unit{1, 2}, Count: 1},
	}},
	Mid2: {steps: []step{
		{Units: []bank.Unit{3}, Count: 1},
		{Units: []bank.Unit{4}, Count: 2},
		{Units: []bank.Unit{5}, Count: 2},
		{Units: []bank.Unit{4, 5}, Count: 1},
	}},
}

func specialPolicy(main bank.Unit) policy {
	return policy{
		steps: []step{
			{Units: []bank.Unit{main}, Count: 2},
			{Units: []bank.Unit{main}, Others: true, Count: 4},
		},
		shuffle: true,
	}
}

// Size is the number of questions a paper of type t contains.
func Size(t Type) int {
	p, ok := fixedPolicies[t]
	if t == Special {
		p, ok = specialPolicy(0), true
	}
	if !ok {
		return 0
	}
	n := 0
	for _, s := range p.steps {
		n += s.Count
	}
	return n
}

func (s step) matches(u bank.Unit) bool {
	if !u.Valid() {
		return false
	}
	in := false
	for _, x := range s.Units {
		if x == u {
			in = true
			break
		}
	}
	return in != s.Others
}

func (s step) partition(qs []bank.Question) []bank.Question {
	var out []bank.Question
	for _, q := range qs {
		if s.matches(q.Unit) {
			out = append(out, q)
		}
	}
	return out
}
