package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestProgressUpsert_UsesConflictClause(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressPostgreSQL(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)INSERT INTO "user_progress".*ON CONFLICT \("user_id","content_id"\) DO UPDATE SET.*GREATEST`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	record := &models.UserProgress{
		ID:           3,
		UserID:       "student-1",
		ContentID:    100,
		Completed:    true,
		Percentage:   100,
		LastAccessed: time.Now(),
	}
	require.NoError(t, repo.Upsert(context.Background(), nil, record))

	assert.Equal(t, uint(9), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressGet_MissingIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressPostgreSQL(db)

	mock.ExpectQuery(`SELECT \* FROM "user_progress" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content_id"}))

	record, err := repo.Get(context.Background(), nil, "student-1", 100)
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressGet_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressPostgreSQL(db)

	mock.ExpectQuery(`SELECT \* FROM "user_progress" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content_id", "completed", "percentage"}).
			AddRow(4, "student-1", 100, true, 100.0))

	record, err := repo.Get(context.Background(), nil, "student-1", 100)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Completed)
	assert.Equal(t, uint(4), record.ID)
}

func TestProgressListByUsers_EmptyInputSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressPostgreSQL(db)

	rows, err := repo.ListByUsers(context.Background(), nil, nil, []uint{1})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ListByUser(context.Background(), nil, "student-1", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
