// Package paper picks the questions of a mid-term paper from the loaded bank.
package paper

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
)

type Request struct {
	Type Type
	// MainUnit is only read for Special. Nil or zero means not given.
	MainUnit *int
}

// Details is the paper header. It is copied from the first selected
// question, so a bank mixing subjects yields a header matching only that one.
type Details struct {
	Subject     string `json:"subject,omitempty"`
	SubjectCode string `json:"subjectCode,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Regulation  string `json:"regulation,omitempty"`
	Year        string `json:"year,omitempty"`
	Semester    string `json:"semester,omitempty"`
}

type Paper struct {
	ID          string          `json:"paperId"`
	Type        Type            `json:"paperType"`
	Questions   []bank.Question `json:"questions"`
	Details     Details         `json:"paperDetails"`
	GeneratedAt int64           `json:"generatedAt"`
}

func DetailsOf(qs []bank.Question) Details {
	if len(qs) == 0 {
		return Details{}
	}
	q := qs[0]
	return Details{
		Subject:     q.Subject,
		SubjectCode: q.SubjectCode,
		Branch:      q.Branch,
		Regulation:  q.Regulation,
		Year:        q.Year,
		Semester:    q.Semester,
	}
}

// Select applies the quota rules of req to qs. It does not modify qs.
func Select(qs []bank.Question, req Request, rng *rand.Rand) ([]bank.Question, error) {
	var pol policy
	switch req.Type {
	case Mid1, Mid2:
		pol = fixedPolicies[req.Type]
	case Special:
		if req.MainUnit == nil || *req.MainUnit == 0 {
			return nil, ErrMissingMainUnit
		}
		pol = specialPolicy(bank.Unit(*req.MainUnit))
	default:
		return nil, ErrUnknownType
	}

	parts := make([][]bank.Question, len(pol.steps))
	var short []Shortage
	for i, s := range pol.steps {
		parts[i] = s.partition(qs)
		if len(parts[i]) < s.Count {
			short = append(short, Shortage{Units: s.Units, Others: s.Others, Need: s.Count, Have: len(parts[i])})
		}
	}
	if len(short) > 0 {
		return nil, &ShortfallError{Type: req.Type, Shortages: short}
	}

	out := make([]bank.Question, 0, Size(req.Type))
	for i, s := range pol.steps {
		out = append(out, sample(rng, parts[i], s.Count)...)
	}
	if pol.shuffle {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out, nil
}

// sample returns n distinct elements of from chosen uniformly at random,
// using a partial Fisher-Yates shuffle on a copy.
func sample(rng *rand.Rand, from []bank.Question, n int) []bank.Question {
	pool := slices.Clone(from)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}

// Generator selects papers against a shared bank.
type Generator struct {
	bank *bank.Holder

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewGenerator seeds its source from the clock when seed is zero.
func NewGenerator(h *bank.Holder, seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		bank: h,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:  time.Now,
	}
}

// Ready reports whether a bank has been loaded.
func (g *Generator) Ready() bool {
	_, ok := g.bank.Load()
	return ok
}

func (g *Generator) Generate(req Request) (Paper, error) {
	qs, ok := g.bank.Load()
	if !ok {
		return Paper{}, ErrBankAbsent
	}

	g.mu.Lock()
	picked, err := Select(qs, req, g.rng)
	g.mu.Unlock()
	if err != nil {
		return Paper{}, err
	}
	return Paper{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Questions:   picked,
		Details:     DetailsOf(picked),
		GeneratedAt: g.now().Unix(),
	}, nil
}
