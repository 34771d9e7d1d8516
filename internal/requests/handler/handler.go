package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"findbin_backend/internal/requests/service"
	"findbin_backend/internal/requests/transport"
	"findbin_backend/platform/httpkit"
	"findbin_backend/platform/validator"
)

// Handler handles HTTP requests for the bin-request workflow.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid request id"
)

// New creates a new requests handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit records a public bin placement request.
// POST /api/dustbin-requests
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	request, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, gin.H{"request": request})
}

// List retrieves requests, optionally filtered with ?status=.
// GET /api/admin/dustbin-requests
func (h *Handler) List(c *gin.Context) {
	requests, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}
	if requests == nil {
		requests = []transport.RequestResponse{}
	}
	httpkit.OK(c, gin.H{"requests": requests})
}

// Get retrieves a single request.
// GET /api/admin/dustbin-requests/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	request, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"request": request})
}

// Approve approves a pending request, creating a dustbin from it. The
// body is optional; when present it may name the new dustbin.
// POST /api/admin/dustbin-requests/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	request, dustbin, err := h.svc.Approve(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"request": request, "dustbin": dustbin})
}

// Reject rejects a pending request.
// POST /api/admin/dustbin-requests/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	request, err := h.svc.Reject(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"request": request})
}
