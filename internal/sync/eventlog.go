package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeBankReplaced   = "BankReplaced"
	TypePaperGenerated = "PaperGenerated"
)

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// BankReplaced records a successful upload. Only the file name and count are
// kept; the questions themselves stay in memory.
func (r *EventRepo) BankReplaced(ctx context.Context, fileName string, count int) error {
	data, err := json.Marshal(map[string]any{"questionCount": count})
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: TypeBankReplaced, Key: fileName, DataJSON: string(data)})
}

func (r *EventRepo) PaperGenerated(ctx context.Context, paperID, paperType string, questionIDs []int) error {
	data, err := json.Marshal(map[string]any{"paperType": paperType, "questionIds": questionIDs})
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: TypePaperGenerated, Key: paperID, DataJSON: string(data)})
}

// Recent returns up to limit events of type typ, newest first. An empty typ
// matches every type.
func (r *EventRepo) Recent(ctx context.Context, typ string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE ($1 = '' OR typ = $1)
		 ORDER BY seq DESC LIMIT $2`, typ, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
