// Package recorder is the single chokepoint that turns system actions into
// well-formed activity records.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
)

const defaultStatus = "completed"

// Recorder appends normalized activity records to the timeline. Every call
// appends exactly one row; identical inputs are never deduplicated because
// each call stands for a distinct real-world event.
type Recorder struct {
	activities contractx.ActivityStore
	now        func() time.Time
}

func New(activities contractx.ActivityStore) (*Recorder, error) {
	if activities == nil {
		return nil, errors.New("activity store is required")
	}
	return &Recorder{
		activities: activities,
		now:        time.Now,
	}, nil
}

// Record validates, defaults, and persists one activity. Status defaults to
// "completed"; CreatedAt and UpdatedAt are assigned the same instant.
func (r *Recorder) Record(
	ctx context.Context,
	creatorID uuid.UUID,
	activityType contractx.ActivityType,
	status string,
	metadata map[string]any,
) (*contractx.Activity, error) {
	return r.record(ctx, creatorID, activityType, status, metadata, r.now())
}

// RecordAt is Record with an explicit event time, used when the caller
// supplies activity_datetime instead of taking the current instant.
func (r *Recorder) RecordAt(
	ctx context.Context,
	creatorID uuid.UUID,
	activityType contractx.ActivityType,
	status string,
	metadata map[string]any,
	at time.Time,
) (*contractx.Activity, error) {
	if at.IsZero() {
		at = r.now()
	}
	return r.record(ctx, creatorID, activityType, status, metadata, at)
}

func (r *Recorder) record(
	ctx context.Context,
	creatorID uuid.UUID,
	activityType contractx.ActivityType,
	status string,
	metadata map[string]any,
	at time.Time,
) (*contractx.Activity, error) {
	if creatorID == uuid.Nil {
		return nil, fmt.Errorf("%w: creator id is required", contractx.ErrValidation)
	}
	if !activityType.Valid() {
		return nil, fmt.Errorf("%w: unknown activity type %q", contractx.ErrValidation, activityType)
	}
	if status == "" {
		status = defaultStatus
	}

	now := at.UTC()
	activity := &contractx.Activity{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		ActivityType: activityType,
		Status:       status,
		Metadata:     metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.activities.Insert(ctx, activity); err != nil {
		return nil, err
	}

	log.Debug().
		Str("creator_id", creatorID.String()).
		Str("activity_type", string(activityType)).
		Str("activity_id", activity.ID.String()).
		Msg("activity recorded")

	return activity, nil
}
