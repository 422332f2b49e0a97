package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/service/scheduling"
)

// BookingService is the slice of the scheduling service the booking handler
// needs.
type BookingService interface {
	CreateBooking(ctx context.Context, in scheduling.CreateBookingInput) (domain.Booking, error)
	UpdateBooking(ctx context.Context, in scheduling.UpdateBookingInput) (domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, role domain.Role) (domain.Booking, error)
	CompleteBooking(ctx context.Context, bookingID, actorID uuid.UUID, role domain.Role) (domain.Booking, error)
	GetBooking(ctx context.Context, bookingID, actorID uuid.UUID, role domain.Role) (domain.Booking, error)
	ListClientBookings(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error)
	ListPhotographerBookings(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error)
	CheckAvailability(ctx context.Context, photographerID uuid.UUID, startTime, endTime time.Time) (scheduling.AvailabilityResult, error)
}

type BookingHandler struct {
	svc BookingService
	log *zap.Logger
}

func NewBookingHandler(svc BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log.Named("http.bookings")}
}

type createBookingRequest struct {
	PhotographerID  string    `json:"photographer_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
	ShootType       string    `json:"shoot_type" binding:"required"`
	Location        string    `json:"location" binding:"required"`
	SpecialRequests string    `json:"special_requests"`
	TotalPriceCents int64     `json:"total_price_cents"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	photographerID, err := uuid.Parse(req.PhotographerID)
	if err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", "invalid photographer_id")
		return
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), scheduling.CreateBookingInput{
		ClientID:        currentUserID(c),
		PhotographerID:  photographerID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		ShootType:       req.ShootType,
		Location:        req.Location,
		SpecialRequests: req.SpecialRequests,
		TotalPriceCents: req.TotalPriceCents,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondCreated(c, booking)
}

func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	booking, err := h.svc.GetBooking(c.Request.Context(), bookingID, currentUserID(c), currentRole(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, booking)
}

type updateBookingRequest struct {
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Status          *string    `json:"status"`
	Location        *string    `json:"location"`
	SpecialRequests *string    `json:"special_requests"`
}

func (h *BookingHandler) Update(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	booking, err := h.svc.UpdateBooking(c.Request.Context(), scheduling.UpdateBookingInput{
		BookingID:       bookingID,
		ActorID:         currentUserID(c),
		ActorRole:       currentRole(c),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          req.Status,
		Location:        req.Location,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	booking, err := h.svc.CancelBooking(c.Request.Context(), bookingID, currentUserID(c), currentRole(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, booking)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	booking, err := h.svc.CompleteBooking(c.Request.Context(), bookingID, currentUserID(c), currentRole(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, booking)
}

// List returns the caller's own bookings, as client or photographer
// depending on their role.
func (h *BookingHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	var (
		bookings []domain.Booking
		total    int64
		err      error
	)
	switch currentRole(c) {
	case domain.RolePhotographer:
		bookings, total, err = h.svc.ListPhotographerBookings(c.Request.Context(), currentUserID(c), page, pageSize)
	default:
		bookings, total, err = h.svc.ListClientBookings(c.Request.Context(), currentUserID(c), page, pageSize)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, bookings, page, pageSize, total)
}

// CheckAvailability probes a photographer's slot without reserving it.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	photographerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", "start_time must be RFC 3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", "end_time must be RFC 3339")
		return
	}

	result, err := h.svc.CheckAvailability(c.Request.Context(), photographerID, start, end)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, result)
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}
