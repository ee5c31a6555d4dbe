package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/storage"
	syncx "github.com/mind-engage/mindengage-qpaper/internal/sync"
)

type Deps struct {
	Bank      *bank.Holder
	Generator *paper.Generator
	Uploads   *storage.FSStore
	// Events is nil when the audit log is off.
	Events         *syncx.EventRepo
	MaxUploadBytes int64
}

// MountPapers registers the /api routes on r.
func MountPapers(r chi.Router, d Deps) {
	var audit Auditor
	if d.Events != nil {
		audit = d.Events
	}
	r.Post("/upload", UploadHandler(d.Bank, d.Uploads, audit, d.MaxUploadBytes))
	r.Post("/generate", GenerateHandler(d.Generator, audit))
	r.Get("/bank", BankSummaryHandler(d.Bank))
	if d.Events != nil {
		r.Get("/audit/events", ListAuditEventsHandler(d.Events))
	}
}
