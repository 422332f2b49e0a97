package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a client's rating of a completed booking. At most one review
// exists per booking.
type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID             uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	BookingID      uuid.UUID `bun:"booking_id,notnull,type:uuid" json:"booking_id"`
	ClientID       uuid.UUID `bun:"client_id,notnull,type:uuid" json:"client_id"`
	PhotographerID uuid.UUID `bun:"photographer_id,notnull,type:uuid" json:"photographer_id"`
	Rating         int       `bun:"rating,notnull" json:"rating"`
	Comment        string    `bun:"comment" json:"comment,omitempty"`
	IsAnonymous    bool      `bun:"is_anonymous,notnull" json:"is_anonymous"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (r *Review) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if r.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			r.ID = id
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		r.UpdatedAt = now
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}
