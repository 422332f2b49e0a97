package http

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/service/availability"
	"lenscal/backend/internal/service/review"
	"lenscal/backend/internal/service/scheduling"
	"lenscal/backend/internal/store"
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code                 string `json:"code"`
	Message              string `json:"message"`
	ConflictingBookingID string `json:"conflicting_booking_id,omitempty"`
}

type paginatedResponse struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, successResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, successResponse{Success: true, Data: data})
}

func respondPage(c *gin.Context, data any, page, pageSize int, total int64) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	c.JSON(http.StatusOK, paginatedResponse{
		Success:    true,
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func respondErrorBody(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Success: false, Error: errorBody{Code: code, Message: message}})
}

// respondError maps service and domain errors to HTTP statuses. Unknown
// errors are logged and reported as an opaque 500 so storage details never
// leak to clients.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		schedValidation  *scheduling.ValidationError
		availValidation  *availability.ValidationError
		reviewValidation *review.ValidationError
		slotTaken        *store.SlotTakenError
		badTransition    *domain.InvalidTransitionError
	)

	switch {
	case errors.As(err, &schedValidation),
		errors.As(err, &availValidation),
		errors.As(err, &reviewValidation):
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrInvalidDuration):
		respondErrorBody(c, http.StatusBadRequest, "INVALID_DURATION", err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, store.ErrPastDate):
		respondErrorBody(c, http.StatusBadRequest, "PAST_DATE", err.Error())
	case errors.Is(err, store.ErrForbidden):
		respondErrorBody(c, http.StatusForbidden, "FORBIDDEN", "you do not have access to this resource")
	case errors.Is(err, store.ErrNotFound):
		respondErrorBody(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.As(err, &slotTaken):
		body := errorBody{Code: "SLOT_TAKEN", Message: err.Error()}
		if slotTaken.ConflictingBookingID != uuid.Nil {
			body.ConflictingBookingID = slotTaken.ConflictingBookingID.String()
		}
		c.JSON(http.StatusConflict, errorResponse{Success: false, Error: body})
	case errors.Is(err, store.ErrNotAvailable):
		respondErrorBody(c, http.StatusConflict, "NOT_AVAILABLE", err.Error())
	case errors.As(err, &badTransition):
		respondErrorBody(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, store.ErrNotEligible):
		respondErrorBody(c, http.StatusConflict, "NOT_ELIGIBLE", err.Error())
	case errors.Is(err, store.ErrDuplicateReview):
		respondErrorBody(c, http.StatusConflict, "DUPLICATE_REVIEW", err.Error())
	case errors.Is(err, store.ErrWindowOverlap):
		respondErrorBody(c, http.StatusConflict, "WINDOW_OVERLAP", err.Error())
	case errors.Is(err, store.ErrWindowBookingConflict):
		respondErrorBody(c, http.StatusConflict, "WINDOW_BOOKING_CONFLICT", err.Error())
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondErrorBody(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
