package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"findbin_backend/internal/geocode/service"
	"findbin_backend/internal/geocode/transport"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/httpkit"
)

const msgInvalidLatLng = "Invalid lat/lng query params"

// Handler handles HTTP requests for reverse geocoding.
type Handler struct {
	svc *service.Service
}

// New creates a new geocode handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Reverse resolves coordinates to a display address.
// GET /api/geocode/reverse?lat&lng
func (h *Handler) Reverse(c *gin.Context) {
	var q transport.ReverseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLatLng, nil)
		return
	}

	point, err := geo.New(*q.Lat, *q.Lng)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLatLng, nil)
		return
	}

	result, err := h.svc.Resolve(c.Request.Context(), point)
	if httpkit.HandleError(c, err) {
		return
	}

	payload := gin.H{"displayName": result.DisplayName, "cached": result.Cached}
	if len(result.Address) > 0 {
		payload["address"] = result.Address
	}
	httpkit.OK(c, payload)
}
