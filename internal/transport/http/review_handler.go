package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/service/review"
)

// ReviewService is the slice of the review service the handler needs.
type ReviewService interface {
	CreateReview(ctx context.Context, in review.CreateReviewInput) (domain.Review, error)
	UpdateReview(ctx context.Context, in review.UpdateReviewInput) (domain.Review, error)
	DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, role domain.Role) error
	GetReview(ctx context.Context, reviewID uuid.UUID) (domain.Review, error)
	ListPhotographerReviews(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error)
	ListClientReviews(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error)
	GetPhotographer(ctx context.Context, photographerID uuid.UUID) (domain.Photographer, error)
}

type ReviewHandler struct {
	svc ReviewService
	log *zap.Logger
}

func NewReviewHandler(svc ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log.Named("http.reviews")}
}

type createReviewRequest struct {
	Rating      int    `json:"rating" binding:"required"`
	Comment     string `json:"comment"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	rev, err := h.svc.CreateReview(c.Request.Context(), review.CreateReviewInput{
		BookingID:   bookingID,
		ClientID:    currentUserID(c),
		Rating:      req.Rating,
		Comment:     req.Comment,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondCreated(c, rev)
}

type updateReviewRequest struct {
	Rating      *int    `json:"rating"`
	Comment     *string `json:"comment"`
	IsAnonymous *bool   `json:"is_anonymous"`
}

func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	rev, err := h.svc.UpdateReview(c.Request.Context(), review.UpdateReviewInput{
		ReviewID:    reviewID,
		ClientID:    currentUserID(c),
		Rating:      req.Rating,
		Comment:     req.Comment,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, rev)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteReview(c.Request.Context(), reviewID, currentUserID(c), currentRole(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// ListForPhotographer returns a photographer's reviews alongside their
// current rating aggregate.
func (h *ReviewHandler) ListForPhotographer(c *gin.Context) {
	photographerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	reviews, total, err := h.svc.ListPhotographerReviews(c.Request.Context(), photographerID, page, pageSize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, reviews, page, pageSize, total)
}

// ListMine returns the authenticated client's own reviews.
func (h *ReviewHandler) ListMine(c *gin.Context) {
	page, pageSize := pageParams(c)
	reviews, total, err := h.svc.ListClientReviews(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, reviews, page, pageSize, total)
}

// GetPhotographer exposes a photographer's public profile, including the
// rating aggregate maintained by the review flows.
func (h *ReviewHandler) GetPhotographer(c *gin.Context) {
	photographerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPhotographer(c.Request.Context(), photographerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, p)
}
