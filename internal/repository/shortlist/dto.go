package shortlist

import (
	"fmt"

	"github.com/goccy/go-json"

	domsl "github.com/kailas-cloud/laptopmatch/internal/domain/shortlist"
)

// row is the stored JSON shape of a shortlist.
type row struct {
	SessionID  string            `json:"session_id"`
	Starred    []string          `json:"starred"`
	Notes      map[string]string `json:"notes,omitempty"`
	Comparison []string          `json:"comparison"`
	UpdatedAt  int64             `json:"updated_at"`
}

func encode(s domsl.Shortlist) ([]byte, error) {
	data, err := json.Marshal(row{
		SessionID:  s.SessionID(),
		Starred:    s.Starred(),
		Notes:      s.Notes(),
		Comparison: s.Comparison(),
		UpdatedAt:  s.UpdatedAt(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal shortlist: %w", err)
	}
	return data, nil
}

func decode(data []byte) (domsl.Shortlist, error) {
	var r row
	if err := json.Unmarshal(data, &r); err != nil {
		return domsl.Shortlist{}, fmt.Errorf("unmarshal shortlist: %w", err)
	}
	return domsl.Reconstruct(r.SessionID, r.Starred, r.Notes, r.Comparison, r.UpdatedAt), nil
}
