package handler

import (
	"github.com/gin-gonic/gin"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
)

// ClientHandler handles client API endpoints
type ClientHandler struct {
	BaseHandler
	clients *appledger.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clients *appledger.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// Create registers a client.
// POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req appledger.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clients.CreateClient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// List returns every client, favorites first.
// GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.ListClients(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, clients, len(clients))
}

// Get returns one client.
// GET /clients/:client_id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, logger.ClientIDParam)
	if !ok {
		return
	}

	client, err := h.clients.GetClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// SetFavorite toggles the favorite flag.
// PUT /clients/:client_id/favorite
func (h *ClientHandler) SetFavorite(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, logger.ClientIDParam)
	if !ok {
		return
	}
	var req appledger.SetFavoriteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clients.SetFavorite(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}
