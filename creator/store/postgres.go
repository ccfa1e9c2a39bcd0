package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
)

// Config holds the Postgres connection settings.
type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

// Open builds a bun DB over the pgdriver pool. The pool is created once at
// startup and shared by every request.
func Open(cfg Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// CreatorStore is the Postgres-backed creator registry.
type CreatorStore struct {
	db  bun.IDB
	now func() time.Time
}

func NewCreatorStore(db bun.IDB) *CreatorStore {
	return &CreatorStore{db: db, now: time.Now}
}

var _ contractx.CreatorStore = (*CreatorStore)(nil)

func (s *CreatorStore) Create(ctx context.Context, nc contractx.NewCreator) (*contractx.Creator, error) {
	if err := nc.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	row := creatorRow{
		ID:          uuid.New(),
		Name:        nc.Name,
		Handle:      nc.Handle,
		Email:       nc.Email,
		PhoneNumber: nc.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: insert creator: %v", contractx.ErrStorage, err)
	}

	c := row.toCreator()
	return &c, nil
}

func (s *CreatorStore) Get(ctx context.Context, id uuid.UUID) (*contractx.Creator, error) {
	var row creatorRow
	err := s.db.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: creator %s", contractx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select creator: %v", contractx.ErrStorage, err)
	}

	c := row.toCreator()
	return &c, nil
}

func (s *CreatorStore) List(ctx context.Context) ([]contractx.Creator, error) {
	var rows []creatorRow
	if err := s.db.NewSelect().Model(&rows).Order("created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list creators: %v", contractx.ErrStorage, err)
	}

	creators := make([]contractx.Creator, 0, len(rows))
	for _, row := range rows {
		creators = append(creators, row.toCreator())
	}
	return creators, nil
}

func (s *CreatorStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*contractx.Creator, error) {
	res, err := s.db.NewUpdate().
		Model((*creatorRow)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", s.now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: update creator status: %v", contractx.ErrStorage, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, fmt.Errorf("%w: creator %s", contractx.ErrNotFound, id)
	}

	return s.Get(ctx, id)
}

// ActivityStore is the Postgres-backed append-only timeline. Rows are only
// ever inserted; no update or delete path exists.
type ActivityStore struct {
	db bun.IDB
}

func NewActivityStore(db bun.IDB) *ActivityStore {
	return &ActivityStore{db: db}
}

var _ contractx.ActivityStore = (*ActivityStore)(nil)

func (s *ActivityStore) Insert(ctx context.Context, a *contractx.Activity) error {
	if a == nil {
		return fmt.Errorf("%w: nil activity", contractx.ErrValidation)
	}

	row := activityToRow(a)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert activity: %v", contractx.ErrStorage, err)
	}
	return nil
}

func (s *ActivityStore) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]contractx.Activity, error) {
	return s.list(ctx, creatorID, false)
}

// ListEmailByCreator returns only email traffic, the input of contract
// synthesis. The filter is on the enumerated activity_type column.
func (s *ActivityStore) ListEmailByCreator(ctx context.Context, creatorID uuid.UUID) ([]contractx.Activity, error) {
	return s.list(ctx, creatorID, true)
}

func (s *ActivityStore) list(ctx context.Context, creatorID uuid.UUID, emailOnly bool) ([]contractx.Activity, error) {
	var rows []activityRow
	q := s.db.NewSelect().Model(&rows).Where("a.creator_id = ?", creatorID)
	if emailOnly {
		q = q.Where("a.activity_type IN (?)", bun.In([]string{
			string(contractx.ActivityEmailSent),
			string(contractx.ActivityEmailReceived),
		}))
	}
	if err := q.Order("created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list activities: %v", contractx.ErrStorage, err)
	}

	activities := make([]contractx.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, row.toActivity())
	}
	return activities, nil
}

// EnsureSchema creates the creators and activities tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{(*creatorRow)(nil), (*activityRow)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: create table: %v", contractx.ErrStorage, err)
		}
	}
	return nil
}
