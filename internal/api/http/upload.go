package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
	"github.com/mind-engage/mindengage-qpaper/internal/ingest"
	"github.com/mind-engage/mindengage-qpaper/internal/storage"
)

// UploadField is the multipart field carrying the workbook.
const UploadField = "excelFile"

// Auditor records bank and paper events. A nil Auditor disables auditing.
type Auditor interface {
	BankReplaced(ctx context.Context, fileName string, count int) error
	PaperGenerated(ctx context.Context, paperID, paperType string, questionIDs []int) error
}

// POST /api/upload (multipart: excelFile=questions.xlsx)
//
// The new bank replaces the old one only after the whole workbook parsed.
func UploadHandler(h *bank.Holder, st *storage.FSStore, audit Auditor, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		f, hdr, err := r.FormFile(UploadField)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer f.Close()

		mime := hdr.Header.Get("Content-Type")
		if !ingest.Accepts(mime) {
			// rejected attachments look the same as a missing one
			log.Printf("upload: rejected %q with type %q", hdr.Filename, mime)
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}

		path, release, err := st.Stage(f, hdr.Filename)
		if err != nil {
			log.Printf("upload: stage %q: %v", hdr.Filename, err)
			writeError(w, http.StatusInternalServerError, "Error processing file")
			return
		}
		defer release()

		qs, err := ingest.Load(path, mime)
		if err != nil {
			log.Printf("upload: parse %q: %v", hdr.Filename, err)
			writeError(w, http.StatusInternalServerError, "Error processing file")
			return
		}
		h.Replace(qs)

		if audit != nil {
			if err := audit.BankReplaced(r.Context(), hdr.Filename, len(qs)); err != nil {
				log.Printf("upload: audit: %v", err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":       "File processed successfully",
			"questionCount": len(qs),
		})
	}
}

// GET /api/bank
func BankSummaryHandler(h *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.Summary()
		units := map[string]int{}
		for u, n := range s.Units {
			units[u.String()] = n
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"loaded":        s.Loaded,
			"questionCount": s.Count,
			"units":         units,
		})
	}
}
