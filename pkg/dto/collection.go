package dto

import "encoding/json"

type CreateCollectionRequest struct {
	Entry json.RawMessage `json:"entry"`
	Name  *string         `json:"name,omitempty"`
}

// UpdateCollectionRequest accepts the entry under "entry"; older clients send it as "field".
type UpdateCollectionRequest struct {
	Entry json.RawMessage `json:"entry,omitempty"`
	Field json.RawMessage `json:"field,omitempty"`
}

func (r UpdateCollectionRequest) Payload() json.RawMessage {
	if len(r.Entry) > 0 {
		return r.Entry
	}
	return r.Field
}

type CollectionResponse struct {
	ID        int64           `json:"id"`
	ContentID int64           `json:"content_id"`
	Name      *string         `json:"name,omitempty"`
	Entry     json.RawMessage `json:"entry"`
}
