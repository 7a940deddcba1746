package repository

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

// The conflict check must stay a single batched query per table: every worker
// in one IN clause, cancelled rows filtered out, overlap inclusive on both
// boundaries.
func TestFindOverlapping_SingleBatchedQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	start := time.Date(2025, time.June, 9, 7, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "assignments" WHERE organization_id = \$1 AND user_id IN \(\$2,\$3,\$4\) AND status <> \$5 AND \(?start_ts <= \$6 AND end_ts >= \$7\)? AND "assignments"\."deleted_at" IS NULL`).
		WithArgs(uint64(1), uint64(10), uint64(11), uint64(12), string(models.AssignmentStatusCancelled), end, start).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "project_id", "user_id", "start_ts", "end_ts", "status"}).
			AddRow(5, 1, 7, 11, start, end, "planned"))

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE "projects"\."id" = \$1 AND "projects"\."deleted_at" IS NULL`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "status"}).
			AddRow(7, 1, "Villa Ekbacken", "active"))

	assignments, err := repo.FindOverlapping(1, []uint64{10, 11, 12}, start, end)
	require.NoError(t, err)

	require.Len(t, assignments, 1)
	assert.Equal(t, uint64(11), assignments[0].UserID)
	assert.Equal(t, "Villa Ekbacken", assignments[0].Project.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOverlapping_NoWorkersSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	assignments, err := repo.FindOverlapping(1, nil, time.Now(), time.Now())
	require.NoError(t, err)

	assert.Empty(t, assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch_EmptySliceIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	require.NoError(t, repo.CreateBatch(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
