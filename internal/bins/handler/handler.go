package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"findbin_backend/internal/bins/service"
	"findbin_backend/internal/bins/transport"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/httpkit"
	"findbin_backend/platform/validator"
)

// Handler handles HTTP requests for dustbins.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLatLng  = "Invalid lat/lng query params"
	msgInvalidID      = "invalid dustbin id"
	msgNoBinsYet      = "No dustbins found yet"
)

// New creates a new dustbins handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all dustbins, newest first.
// GET /api/dustbins (public), GET /api/admin/dustbins (admin)
func (h *Handler) List(c *gin.Context) {
	dustbins, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	if dustbins == nil {
		dustbins = []transport.DustbinResponse{}
	}
	httpkit.OK(c, gin.H{"dustbins": dustbins})
}

// Nearest returns the single closest dustbin to the query point.
// GET /api/dustbins/nearest?lat&lng
func (h *Handler) Nearest(c *gin.Context) {
	var q transport.NearestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLatLng, nil)
		return
	}

	point, err := geo.New(*q.Lat, *q.Lng)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLatLng, nil)
		return
	}

	result, err := h.svc.FindNearest(c.Request.Context(), point)
	if httpkit.HandleError(c, err) {
		return
	}

	payload := gin.H{
		"dustbin":        result.Dustbin,
		"distanceMeters": result.DistanceMeters,
	}
	if result.Dustbin == nil {
		payload["message"] = msgNoBinsYet
	}
	if result.Fallback {
		payload["fallback"] = true
	}
	httpkit.OK(c, payload)
}

// Create creates a new dustbin.
// POST /api/admin/dustbins
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateDustbinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	dustbin, err := h.svc.Create(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, gin.H{"dustbin": dustbin})
}

// Update applies a partial update to a dustbin.
// PUT /api/admin/dustbins/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateDustbinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	dustbin, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"dustbin": dustbin})
}

// Delete removes a dustbin.
// DELETE /api/admin/dustbins/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.OK(c, gin.H{})
}
