package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
)

func newMockDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestActivityStoreInsert(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "activities"`).WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	s := NewActivityStore(db)
	err := s.Insert(context.Background(), &contractx.Activity{
		ID:           uuid.New(),
		CreatorID:    uuid.New(),
		ActivityType: contractx.ActivityEmailSent,
		Status:       "completed",
		Metadata:     map[string]any{"body": "Quote sent"},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityStoreInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "activities"`).WillReturnError(sql.ErrConnDone)

	s := NewActivityStore(db)
	err := s.Insert(context.Background(), &contractx.Activity{
		ID:           uuid.New(),
		CreatorID:    uuid.New(),
		ActivityType: contractx.ActivityEmailSent,
	})
	require.ErrorIs(t, err, contractx.ErrStorage)
}

func TestActivityStoreListEmailByCreator(t *testing.T) {
	db, mock := newMockDB(t)

	creatorID := uuid.New()
	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "creator_id", "activity_type", "status", "metadata", "created_at", "updated_at",
	}).
		AddRow(uuid.New().String(), creatorID.String(), "email_sent", "completed",
			[]byte(`{"body":"Quote sent"}`), t1, t1).
		AddRow(uuid.New().String(), creatorID.String(), "email_received", "completed",
			[]byte(`{"body":"Accepted"}`), t2, t2)

	mock.ExpectQuery(`SELECT (.+) FROM "activities" AS "a" WHERE (.+)a.activity_type IN (.+) ORDER BY (.+)created_at(.+) ASC`).
		WillReturnRows(rows)

	s := NewActivityStore(db)
	activities, err := s.ListEmailByCreator(context.Background(), creatorID)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	require.Equal(t, contractx.ActivityEmailSent, activities[0].ActivityType)
	require.Equal(t, "Quote sent", activities[0].Body())
	require.Equal(t, "Accepted", activities[1].Body())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStoreGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "creators"`).WillReturnError(sql.ErrNoRows)

	s := NewCreatorStore(db)
	_, err := s.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestCreatorStoreCreate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "creators"`).WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := NewCreatorStore(db)
	s.now = func() time.Time { return now }

	creator, err := s.Create(context.Background(), contractx.NewCreator{
		Name:   "Ana",
		Handle: "ana_v",
		Email:  "ana@x.com",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, creator.ID)
	require.Equal(t, now, creator.CreatedAt)
	require.Equal(t, creator.CreatedAt, creator.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorStoreCreateValidates(t *testing.T) {
	db, _ := newMockDB(t)

	s := NewCreatorStore(db)
	_, err := s.Create(context.Background(), contractx.NewCreator{Handle: "ana_v"})
	require.ErrorIs(t, err, contractx.ErrValidation)

	_, err = s.Create(context.Background(), contractx.NewCreator{Name: "Ana", Handle: "ana_v", Email: "not-an-address"})
	require.ErrorIs(t, err, contractx.ErrValidation)
}

func TestCreatorStoreUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "creators"`).WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewCreatorStore(db)
	_, err := s.UpdateStatus(context.Background(), uuid.New(), "signed")
	require.ErrorIs(t, err, contractx.ErrNotFound)
}
