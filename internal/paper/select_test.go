package paper

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }

// mkBank builds a bank with counts[u] questions for each unit u.
func mkBank(counts map[bank.Unit]int) []bank.Question {
	var qs []bank.Question
	for u := bank.Unit(1); u <= 9; u++ {
		for i := 0; i < counts[u]; i++ {
			qs = append(qs, bank.Question{
				ID:       len(qs) + 1,
				Unit:     u,
				Question: fmt.Sprintf("u%d-q%d", u, i),
				Subject:  "Thermodynamics",
			})
		}
	}
	return qs
}

func unitCounts(qs []bank.Question) map[bank.Unit]int {
	out := map[bank.Unit]int{}
	for _, q := range qs {
		out[q.Unit]++
	}
	return out
}

func intp(n int) *int { return &n }

func TestMid1ExactBank(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 2, 2: 2, 3: 1})
	got, err := Select(qs, Request{Type: Mid1}, newRand())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d questions, want 6", len(got))
	}
	// the first five come from dedicated draws and must be distinct
	seen := map[int]bool{}
	for _, q := range got[:5] {
		if seen[q.ID] {
			t.Fatalf("question %d repeated in dedicated draws", q.ID)
		}
		seen[q.ID] = true
	}
	if u := got[0].Unit; u != 1 || got[1].Unit != 1 {
		t.Errorf("first two should be unit 1: %d %d", got[0].Unit, got[1].Unit)
	}
	if got[2].Unit != 2 || got[3].Unit != 2 || got[4].Unit != 3 {
		t.Errorf("unexpected unit order: %v", got)
	}
	if u := got[5].Unit; u != 1 && u != 2 {
		t.Errorf("pooled pick from unit %d", u)
	}
}

func TestMid1PooledDrawMayRepeat(t *testing.T) {
	// with exactly four unit 1/2 questions the pooled pick is always a repeat
	qs := mkBank(map[bank.Unit]int{1: 2, 2: 2, 3: 1})
	got, err := Select(qs, Request{Type: Mid1}, newRand())
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, q := range got[:4] {
		if q.ID == got[5].ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("pooled pick %d not among earlier picks", got[5].ID)
	}
}

func TestMid1Shortfall(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 1, 2: 5, 3: 5})
	_, err := Select(qs, Request{Type: Mid1}, newRand())
	var se *ShortfallError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ShortfallError", err)
	}
	if !se.Mentions(1) {
		t.Errorf("error should mention unit 1: %v", err)
	}
	if se.Mentions(2) || se.Mentions(3) {
		t.Errorf("error names units that are not short: %v", err)
	}
	if want := "insufficient questions in Unit 1 (need 2, have 1)"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestMid2(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 3, 3: 4, 4: 5, 5: 5})
	got, err := Select(qs, Request{Type: Mid2}, newRand())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d", len(got))
	}
	c := unitCounts(got[:5])
	if c[3] != 1 || c[4] != 2 || c[5] != 2 {
		t.Errorf("dedicated counts = %v", c)
	}
	if u := got[5].Unit; u != 4 && u != 5 {
		t.Errorf("pooled pick from unit %d", u)
	}
}

func TestMid2ShortfallNamesEveryShortUnit(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{4: 1, 5: 2})
	_, err := Select(qs, Request{Type: Mid2}, newRand())
	var se *ShortfallError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v", err)
	}
	if !se.Mentions(3) || !se.Mentions(4) || se.Mentions(5) {
		t.Errorf("shortages = %v", err)
	}
}

func TestSpecial(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 1, 2: 1, 3: 2, 4: 1, 5: 1})
	got, err := Select(qs, Request{Type: Special, MainUnit: intp(3)}, newRand())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d", len(got))
	}
	if c := unitCounts(got); c[3] != 2 {
		t.Errorf("unit 3 count = %d, want 2", c[3])
	}
	seen := map[int]bool{}
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("question %d repeated", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSpecialShortfalls(t *testing.T) {
	_, err := Select(mkBank(map[bank.Unit]int{2: 1, 1: 9}), Request{Type: Special, MainUnit: intp(2)}, newRand())
	var se *ShortfallError
	if !errors.As(err, &se) || !se.Mentions(2) {
		t.Fatalf("main unit shortfall: %v", err)
	}

	_, err = Select(mkBank(map[bank.Unit]int{2: 5, 1: 3}), Request{Type: Special, MainUnit: intp(2)}, newRand())
	if !errors.As(err, &se) || len(se.Shortages) != 1 || !se.Shortages[0].Others {
		t.Fatalf("others shortfall: %v", err)
	}
	if se.Mentions(2) {
		t.Errorf("others shortage should not mention the main unit: %v", err)
	}
}

func TestNoUnitQuestionsAreInvisible(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{3: 2})
	for i := 0; i < 10; i++ {
		qs = append(qs, bank.Question{ID: len(qs) + 1, Unit: bank.NoUnit})
	}
	_, err := Select(qs, Request{Type: Special, MainUnit: intp(3)}, newRand())
	var se *ShortfallError
	if !errors.As(err, &se) {
		t.Fatalf("NoUnit questions should not count as other units: %v", err)
	}
}

func TestRequestErrors(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 5, 2: 5, 3: 5})
	if _, err := Select(qs, Request{Type: Special}, newRand()); !errors.Is(err, ErrMissingMainUnit) {
		t.Errorf("nil main unit: %v", err)
	}
	if _, err := Select(qs, Request{Type: Special, MainUnit: intp(0)}, newRand()); !errors.Is(err, ErrMissingMainUnit) {
		t.Errorf("zero main unit: %v", err)
	}
	for _, typ := range []Type{"final", "", "MID1"} {
		if _, err := Select(qs, Request{Type: typ}, newRand()); !errors.Is(err, ErrUnknownType) {
			t.Errorf("type %q: %v", typ, err)
		}
	}
}

func TestSelectDoesNotModifyBank(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 4, 2: 4, 3: 4})
	orig := append([]bank.Question(nil), qs...)
	if _, err := Select(qs, Request{Type: Mid1}, newRand()); err != nil {
		t.Fatal(err)
	}
	for i := range qs {
		if qs[i] != orig[i] {
			t.Fatalf("bank modified at %d", i)
		}
	}
}

func TestSelectionIsRandomButRespectsQuotas(t *testing.T) {
	qs := mkBank(map[bank.Unit]int{1: 10, 2: 10, 3: 10, 4: 10, 5: 10})
	rng := newRand()
	orderings := map[string]bool{}
	for i := 0; i < 50; i++ {
		got, err := Select(qs, Request{Type: Mid1}, rng)
		if err != nil {
			t.Fatal(err)
		}
		c := unitCounts(got[:5])
		if c[1] != 2 || c[2] != 2 || c[3] != 1 {
			t.Fatalf("quota broken: %v", c)
		}
		orderings[fmt.Sprint(ids(got))] = true
	}
	if len(orderings) < 2 {
		t.Fatal("50 draws produced a single paper")
	}
}

func TestSampleIsUniform(t *testing.T) {
	from := mkBank(map[bank.Unit]int{1: 10})
	rng := newRand()
	hits := map[int]int{}
	const trials = 10000
	for i := 0; i < trials; i++ {
		got := sample(rng, from, 3)
		if got[0].ID == got[1].ID || got[1].ID == got[2].ID || got[0].ID == got[2].ID {
			t.Fatalf("sample repeated an element: %v", ids(got))
		}
		for _, q := range got {
			hits[q.ID]++
		}
	}
	// expected 3000 per element
	for id, n := range hits {
		if n < 2700 || n > 3300 {
			t.Errorf("element %d picked %d times", id, n)
		}
	}
}

func TestDetailsFromFirstQuestion(t *testing.T) {
	qs := []bank.Question{
		{ID: 1, Subject: "A", SubjectCode: "A1", Branch: "CSE", Regulation: "R20", Year: "II", Semester: "I"},
		{ID: 2, Subject: "B"},
	}
	d := DetailsOf(qs)
	if d.Subject != "A" || d.SubjectCode != "A1" || d.Branch != "CSE" || d.Regulation != "R20" || d.Year != "II" || d.Semester != "I" {
		t.Fatalf("details = %+v", d)
	}
	if DetailsOf(nil) != (Details{}) {
		t.Fatal("empty selection should give empty details")
	}
}

func TestSize(t *testing.T) {
	for _, typ := range []Type{Mid1, Mid2, Special} {
		if Size(typ) != 6 {
			t.Errorf("Size(%s) = %d", typ, Size(typ))
		}
	}
	if Size("final") != 0 {
		t.Error("unknown type has no size")
	}
}

func ids(qs []bank.Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
