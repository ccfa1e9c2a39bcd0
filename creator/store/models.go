package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
)

type creatorRow struct {
	bun.BaseModel `bun:"table:creators,alias:c"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	Handle      string    `bun:"handle,notnull,unique"`
	Email       string    `bun:"email"`
	PhoneNumber string    `bun:"phone_number"`
	Status      string    `bun:"status"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type activityRow struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid"`
	CreatorID    uuid.UUID      `bun:"creator_id,type:uuid,notnull"`
	ActivityType string         `bun:"activity_type,notnull"`
	Status       string         `bun:"status,notnull"`
	Metadata     map[string]any `bun:"metadata,type:jsonb"`
	CreatedAt    time.Time      `bun:"created_at,notnull"`
	UpdatedAt    time.Time      `bun:"updated_at,notnull"`
}

func (r creatorRow) toCreator() contractx.Creator {
	return contractx.Creator{
		ID:          r.ID,
		Name:        r.Name,
		Handle:      r.Handle,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r activityRow) toActivity() contractx.Activity {
	return contractx.Activity{
		ID:           r.ID,
		CreatorID:    r.CreatorID,
		ActivityType: contractx.ActivityType(r.ActivityType),
		Status:       r.Status,
		Metadata:     r.Metadata,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func activityToRow(a *contractx.Activity) activityRow {
	return activityRow{
		ID:           a.ID,
		CreatorID:    a.CreatorID,
		ActivityType: string(a.ActivityType),
		Status:       a.Status,
		Metadata:     a.Metadata,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
