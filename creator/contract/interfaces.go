package contract

import (
	"context"

	"github.com/google/uuid"
)

// CreatorStore owns creator identity records.
type CreatorStore interface {
	Create(ctx context.Context, nc NewCreator) (*Creator, error)
	Get(ctx context.Context, id uuid.UUID) (*Creator, error)
	List(ctx context.Context) ([]Creator, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Creator, error)
}

// ActivityStore is the append-only timeline. Implementations never update
// or delete rows on behalf of the core.
type ActivityStore interface {
	Insert(ctx context.Context, a *Activity) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]Activity, error)
	ListEmailByCreator(ctx context.Context, creatorID uuid.UUID) ([]Activity, error)
}

// CallProvider wraps the external voice-calling API.
type CallProvider interface {
	Place(ctx context.Context, p CallPlacement) (*CallResult, error)
	Analyze(ctx context.Context, callID string) (map[string]any, error)
	Status(ctx context.Context, callID string) (string, error)
}

// EmailProvider wraps the external email-delivery API.
type EmailProvider interface {
	Send(ctx context.Context, d EmailDelivery) (*EmailResult, error)
}

// TextGenerator produces a document from a system instruction and one
// user turn. Output is non-deterministic.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}
