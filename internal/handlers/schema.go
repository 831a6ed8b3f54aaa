package handlers

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/dimitrije/cms-api/internal/sse"
	"github.com/dimitrije/cms-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type SchemaHandler struct {
	schemaService SchemaServiceInterface
	hub           HubInterface
	logger        *zap.Logger
}

func NewSchemaHandler(schemaService SchemaServiceInterface, hub HubInterface, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		hub:           hub,
		logger:        logger,
	}
}

func isYAMLContentType(contentType string) bool {
	return strings.Contains(contentType, "application/yaml") ||
		strings.Contains(contentType, "text/yaml") ||
		strings.Contains(contentType, "application/x-yaml")
}

// ImportOpenAPI creates contents from the object schemas of an OpenAPI
// document. A YAML body is the document itself and takes the resolution from
// the query string; a JSON body wraps it in {spec, resolution}.
func (h *SchemaHandler) ImportOpenAPI(c *drift.Context) {
	var specBytes []byte
	resolution := c.QueryParam("resolution")

	if isYAMLContentType(c.GetHeader("Content-Type")) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.BadRequest("failed to read request body")
			return
		}
		specBytes = body
	} else {
		var req dto.ImportSchemaRequest
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("invalid request body")
			return
		}

		// A JSON string holds YAML text.
		var yamlStr string
		if err := json.Unmarshal(req.Spec, &yamlStr); err == nil {
			specBytes = []byte(yamlStr)
		} else {
			specBytes = req.Spec
		}
		if req.Resolution != "" {
			resolution = req.Resolution
		}
	}

	if len(specBytes) == 0 {
		c.BadRequest("spec is required")
		return
	}

	result, err := h.schemaService.Import(c.Request.Context(), specBytes, resolution)
	if err != nil {
		writeError(c, h.logger, err, "failed to import schema")
		return
	}

	for i := range result.Created {
		ct := &result.Created[i]
		h.hub.BroadcastContent(sse.EventContentCreated, ct.ID, ct.Name, ct.Fields)
	}
	for i := range result.Updated {
		ct := &result.Updated[i]
		h.hub.BroadcastContent(sse.EventFieldsReplaced, ct.ID, ct.Name, ct.Fields)
	}

	status := 200
	if len(result.Created) > 0 {
		status = 201
	}
	_ = c.JSON(status, toImportResponse(result))
}

func toImportResponse(result *models.ImportResult) dto.ImportSchemaResponse {
	response := dto.ImportSchemaResponse{
		Created: make([]dto.ContentResponse, len(result.Created)),
		Updated: make([]dto.ContentResponse, len(result.Updated)),
		Skipped: result.Skipped,
	}
	for i := range result.Created {
		response.Created[i] = toContentResponse(&result.Created[i])
	}
	for i := range result.Updated {
		response.Updated[i] = toContentResponse(&result.Updated[i])
	}
	return response
}
