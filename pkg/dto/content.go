package dto

type CreateContentRequest struct {
	Name string `json:"name"`
}

type RenameContentRequest struct {
	NewName string `json:"newName"`
}

type FieldRequest struct {
	Field string `json:"field"`
}

type ReplaceFieldsRequest struct {
	Field []string `json:"field"`
}

type ContentResponse struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

type FieldMutationResponse struct {
	ContentID    int64    `json:"content_id"`
	RowsAffected int64    `json:"rows_affected"`
	Fields       []string `json:"fields"`
}
