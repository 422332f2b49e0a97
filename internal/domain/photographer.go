package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Photographer is the resource-owning party whose time is booked. Rating and
// ReviewCount form a materialized aggregate over the photographer's review
// set; they are recomputed transactionally with every review mutation and
// are never written independently.
type Photographer struct {
	bun.BaseModel `bun:"table:photographers"`

	ID                uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Bio               string    `bun:"bio" json:"bio,omitempty"`
	Specialization    ShootType `bun:"specialization,notnull" json:"specialization"`
	YearsOfExperience int       `bun:"years_of_experience,notnull" json:"years_of_experience"`
	HourlyRateCents   int64     `bun:"hourly_rate_cents,notnull" json:"hourly_rate_cents"`
	IsAvailable       bool      `bun:"is_available,notnull" json:"is_available"`
	Rating            float64   `bun:"rating,notnull" json:"rating"`
	ReviewCount       int       `bun:"review_count,notnull" json:"review_count"`
	CreatedAt         time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (p *Photographer) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			p.ID = id
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		p.UpdatedAt = now
	}
	return nil
}
