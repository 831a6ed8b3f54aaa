package handlers

import (
	"strconv"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/dimitrije/cms-api/internal/sse"
	"github.com/dimitrije/cms-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// CollectionHandler addresses collections by numeric id. On GET and POST the
// id is the owning content's id; on PUT, PATCH and DELETE it is the
// collection's own id.
type CollectionHandler struct {
	collectionService CollectionServiceInterface
	hub               HubInterface
	logger            *zap.Logger
}

func NewCollectionHandler(collectionService CollectionServiceInterface, hub HubInterface, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		hub:               hub,
		logger:            logger,
	}
}

func toCollectionResponse(col *models.Collection) dto.CollectionResponse {
	return dto.CollectionResponse{
		ID:        col.ID,
		ContentID: col.ContentID,
		Name:      col.Name,
		Entry:     col.Entry,
	}
}

func parseID(c *drift.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *CollectionHandler) List(c *drift.Context) {
	contentID, ok := parseID(c)
	if !ok {
		c.BadRequest("invalid content id")
		return
	}

	collections, err := h.collectionService.GetByContentID(c.Request.Context(), contentID)
	if err != nil {
		writeError(c, h.logger, err, "failed to get collections")
		return
	}

	response := make([]dto.CollectionResponse, len(collections))
	for i := range collections {
		response[i] = toCollectionResponse(&collections[i])
	}

	_ = c.JSON(200, response)
}

func (h *CollectionHandler) Create(c *drift.Context) {
	contentID, ok := parseID(c)
	if !ok {
		c.BadRequest("invalid content id")
		return
	}

	var req dto.CreateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if len(req.Entry) == 0 {
		c.BadRequest("entry is required")
		return
	}

	collection, err := h.collectionService.Create(c.Request.Context(), contentID, req.Entry, req.Name)
	if err != nil {
		writeError(c, h.logger, err, "failed to create collection")
		return
	}

	h.hub.BroadcastCollection(sse.EventCollectionCreated, collection.ContentID, collection.ID)

	_ = c.JSON(201, toCollectionResponse(collection))
}

func (h *CollectionHandler) Update(c *drift.Context) {
	id, ok := parseID(c)
	if !ok {
		c.BadRequest("invalid collection id")
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	entry := req.Payload()
	if len(entry) == 0 {
		c.BadRequest("entry is required")
		return
	}

	collection, err := h.collectionService.UpdateEntry(c.Request.Context(), id, entry)
	if err != nil {
		writeError(c, h.logger, err, "failed to update collection")
		return
	}

	h.hub.BroadcastCollection(sse.EventCollectionUpdated, collection.ContentID, collection.ID)

	_ = c.JSON(200, toCollectionResponse(collection))
}

func (h *CollectionHandler) Delete(c *drift.Context) {
	id, ok := parseID(c)
	if !ok {
		c.BadRequest("invalid collection id")
		return
	}

	collection, err := h.collectionService.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to delete collection")
		return
	}

	h.hub.BroadcastCollection(sse.EventCollectionDeleted, collection.ContentID, collection.ID)

	_ = c.JSON(200, toCollectionResponse(collection))
}
