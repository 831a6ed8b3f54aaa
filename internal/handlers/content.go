package handlers

import (
	"github.com/dimitrije/cms-api/internal/models"
	"github.com/dimitrije/cms-api/internal/sse"
	"github.com/dimitrije/cms-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type ContentHandler struct {
	contentService ContentServiceInterface
	hub            HubInterface
	logger         *zap.Logger
}

func NewContentHandler(contentService ContentServiceInterface, hub HubInterface, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		hub:            hub,
		logger:         logger,
	}
}

func toContentResponse(content *models.Content) dto.ContentResponse {
	return dto.ContentResponse{
		ID:     content.ID,
		Name:   content.Name,
		Fields: content.Fields,
	}
}

func toMutationResponse(m *models.FieldMutation) dto.FieldMutationResponse {
	return dto.FieldMutationResponse{
		ContentID:    m.ContentID,
		RowsAffected: m.RowsAffected,
		Fields:       m.Fields,
	}
}

func (h *ContentHandler) List(c *drift.Context) {
	contents, err := h.contentService.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "failed to get contents")
		return
	}

	response := make([]dto.ContentResponse, len(contents))
	for i := range contents {
		response[i] = toContentResponse(&contents[i])
	}

	_ = c.JSON(200, response)
}

func (h *ContentHandler) Create(c *drift.Context) {
	var req dto.CreateContentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	content, err := h.contentService.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, h.logger, err, "failed to create content")
		return
	}

	h.hub.BroadcastContent(sse.EventContentCreated, content.ID, content.Name, content.Fields)

	_ = c.JSON(201, toContentResponse(content))
}

// Get returns the content, or only its field list when called with ?view=fields.
func (h *ContentHandler) Get(c *drift.Context) {
	content, err := h.contentService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, h.logger, err, "failed to get content")
		return
	}

	if c.QueryParam("view") == "fields" {
		_ = c.JSON(200, content.Fields)
		return
	}

	_ = c.JSON(200, toContentResponse(content))
}

func (h *ContentHandler) Rename(c *drift.Context) {
	var req dto.RenameContentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.NewName == "" {
		c.BadRequest("newName is required")
		return
	}

	content, err := h.contentService.Rename(c.Request.Context(), c.Param("name"), req.NewName)
	if err != nil {
		writeError(c, h.logger, err, "failed to rename content")
		return
	}

	h.hub.BroadcastContent(sse.EventContentRenamed, content.ID, content.Name, nil)

	_ = c.JSON(200, toContentResponse(content))
}

func (h *ContentHandler) ReplaceFields(c *drift.Context) {
	var req dto.ReplaceFieldsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Field == nil {
		c.BadRequest("field is required")
		return
	}
	for _, f := range req.Field {
		if f == "" {
			c.BadRequest("field values must not be empty")
			return
		}
	}

	name := c.Param("name")
	result, err := h.contentService.ReplaceFields(c.Request.Context(), name, req.Field)
	if err != nil {
		writeError(c, h.logger, err, "failed to update fields")
		return
	}

	h.hub.BroadcastContent(sse.EventFieldsReplaced, result.ContentID, name, result.Fields)

	_ = c.JSON(200, toMutationResponse(result))
}

func (h *ContentHandler) AddField(c *drift.Context) {
	var req dto.FieldRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Field == "" {
		c.BadRequest("field is required")
		return
	}

	name := c.Param("name")
	result, err := h.contentService.AddField(c.Request.Context(), name, req.Field)
	if err != nil {
		writeError(c, h.logger, err, "failed to add field")
		return
	}

	h.hub.BroadcastContent(sse.EventFieldAdded, result.ContentID, name, result.Fields)

	_ = c.JSON(200, toMutationResponse(result))
}

func (h *ContentHandler) RemoveField(c *drift.Context) {
	name := c.Param("name")
	result, err := h.contentService.RemoveField(c.Request.Context(), name, c.Param("fieldname"))
	if err != nil {
		writeError(c, h.logger, err, "failed to remove field")
		return
	}

	h.hub.BroadcastContent(sse.EventFieldRemoved, result.ContentID, name, result.Fields)

	_ = c.JSON(200, toMutationResponse(result))
}

func (h *ContentHandler) RenameField(c *drift.Context) {
	var req dto.FieldRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Field == "" {
		c.BadRequest("field is required")
		return
	}

	name := c.Param("name")
	result, err := h.contentService.RenameField(c.Request.Context(), name, c.Param("fieldname"), req.Field)
	if err != nil {
		writeError(c, h.logger, err, "failed to rename field")
		return
	}

	h.hub.BroadcastContent(sse.EventFieldRenamed, result.ContentID, name, result.Fields)

	_ = c.JSON(200, toMutationResponse(result))
}

// Events streams change events for one content until the client disconnects.
// The subscription follows the content id, so it survives a rename.
func (h *ContentHandler) Events(c *drift.Context) {
	content, err := h.contentService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, h.logger, err, "failed to get content")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:       clientID,
		Contents: map[int64]bool{content.ID: true},
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]any{
		"type":       "connected",
		"client_id":  clientID,
		"content_id": content.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
