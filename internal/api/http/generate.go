package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-qpaper/internal/paper"
)

const msgBankAbsent = "No questions available. Please upload an Excel file first."

type generateRequest struct {
	PaperType string          `json:"paperType"`
	MainUnit  json.RawMessage `json:"mainUnit,omitempty"`
}

var errMainUnit = errors.New("mainUnit must be an integer")

// parseMainUnit accepts a whole JSON number (3 or 3.0), a numeric string,
// null or nothing.
func parseMainUnit(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errMainUnit
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, errMainUnit
		}
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, errMainUnit
	}
	n := int(f)
	return &n, nil
}

// POST /api/generate {"paperType":"mid1|mid2|special","mainUnit":3}
func GenerateHandler(gen *paper.Generator, audit Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// before the first upload every body gets the same answer
		if !gen.Ready() {
			writeError(w, http.StatusBadRequest, msgBankAbsent)
			return
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		mainUnit, err := parseMainUnit(req.MainUnit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := gen.Generate(paper.Request{Type: paper.Type(req.PaperType), MainUnit: mainUnit})
		switch {
		case err == nil:
		case errors.Is(err, paper.ErrBankAbsent):
			writeError(w, http.StatusBadRequest, msgBankAbsent)
			return
		case paper.IsClientError(err):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		default:
			log.Printf("generate: %v", err)
			writeError(w, http.StatusInternalServerError, "Error generating questions: "+err.Error())
			return
		}

		if audit != nil {
			ids := make([]int, len(p.Questions))
			for i, q := range p.Questions {
				ids[i] = q.ID
			}
			if err := audit.PaperGenerated(r.Context(), p.ID, string(p.Type), ids); err != nil {
				log.Printf("generate: audit: %v", err)
			}
		}
		writeJSON(w, http.StatusOK, p)
	}
}
