package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/service/availability"
)

// AvailabilityService is the slice of the availability service the handler
// needs.
type AvailabilityService interface {
	CreateWindow(ctx context.Context, in availability.WindowInput) (domain.AvailabilityWindow, error)
	UpdateWindow(ctx context.Context, windowID uuid.UUID, in availability.WindowInput) (domain.AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, photographerID, windowID, actorID uuid.UUID, role domain.Role) error
	ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error)
	GetWindow(ctx context.Context, windowID uuid.UUID) (domain.AvailabilityWindow, error)
}

type AvailabilityHandler struct {
	svc AvailabilityService
	log *zap.Logger
}

func NewAvailabilityHandler(svc AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, log: log.Named("http.availability")}
}

type windowRequest struct {
	Kind         string  `json:"kind" binding:"required"`
	DayOfWeek    string  `json:"day_of_week"`
	SpecificDate *string `json:"specific_date"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
}

func (r windowRequest) toInput(c *gin.Context) (availability.WindowInput, bool) {
	in := availability.WindowInput{
		PhotographerID: currentUserID(c),
		ActorID:        currentUserID(c),
		ActorRole:      currentRole(c),
		Kind:           r.Kind,
		DayOfWeek:      r.DayOfWeek,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
	}
	if r.SpecificDate != nil {
		date, err := time.Parse("2006-01-02", *r.SpecificDate)
		if err != nil {
			respondErrorBody(c, http.StatusBadRequest, "VALIDATION", "specific_date must be YYYY-MM-DD")
			return availability.WindowInput{}, false
		}
		in.SpecificDate = &date
	}
	return in, true
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	in, ok := req.toInput(c)
	if !ok {
		return
	}
	window, err := h.svc.CreateWindow(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondCreated(c, window)
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	windowID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	in, ok := req.toInput(c)
	if !ok {
		return
	}
	window, err := h.svc.UpdateWindow(c.Request.Context(), windowID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, window)
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	windowID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.svc.DeleteWindow(c.Request.Context(), currentUserID(c), windowID, currentUserID(c), currentRole(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// ListMine returns the authenticated photographer's own windows.
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	windows, err := h.svc.ListWindows(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, windows)
}

// ListForPhotographer returns any photographer's declared windows. Clients
// use it to find bookable time.
func (h *AvailabilityHandler) ListForPhotographer(c *gin.Context) {
	photographerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	windows, err := h.svc.ListWindows(c.Request.Context(), photographerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, windows)
}
