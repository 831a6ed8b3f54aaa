package models

import (
	"encoding/json"
	"time"
)

type Collection struct {
	ID        int64           `json:"id"`
	ContentID int64           `json:"content_id"`
	Name      *string         `json:"name,omitempty"`
	Entry     json.RawMessage `json:"entry"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
