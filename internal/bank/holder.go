package bank

import "sync/atomic"

// Holder is the process-wide question bank: absent until the first
// successful upload, then replaced wholesale by every later one.
//
// Replace is a single pointer store, so readers never observe a half-built
// bank. Nothing orders an upload against a concurrent selection though: a
// request that loaded the bank just before a Replace finishes on the old one.
type Holder struct {
	p atomic.Pointer[[]Question]
}

func NewHolder() *Holder { return &Holder{} }

// Load returns the current bank and whether one has been loaded.
func (h *Holder) Load() ([]Question, bool) {
	qs := h.p.Load()
	if qs == nil {
		return nil, false
	}
	return *qs, true
}

// Replace installs qs as the bank. Callers must not modify qs afterwards.
func (h *Holder) Replace(qs []Question) {
	if qs == nil {
		qs = []Question{}
	}
	h.p.Store(&qs)
}

// Summary is one snapshot of the bank's size.
type Summary struct {
	Loaded bool
	Count  int
	// Units counts questions per valid unit; nil while absent.
	Units map[Unit]int
}

// Summary describes the bank from a single Load.
func (h *Holder) Summary() Summary {
	qs, ok := h.Load()
	if !ok {
		return Summary{}
	}
	units := map[Unit]int{}
	for _, q := range qs {
		if q.Unit.Valid() {
			units[q.Unit]++
		}
	}
	return Summary{Loaded: true, Count: len(qs), Units: units}
}
