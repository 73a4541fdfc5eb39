package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newStatsRepoWithMock(t *testing.T) (StatsRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStatsRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetModerationStats(t *testing.T) {
	t.Run("按状态汇总并按目标类型分组", func(t *testing.T) {
		repo, mock := newStatsRepoWithMock(t)

		mock.ExpectQuery(`COUNT\(\*\) FILTER`).WillReturnRows(
			sqlmock.NewRows([]string{"total_pending", "total_resolved", "total_dismissed"}).
				AddRow(3, 10, 2),
		)
		mock.ExpectQuery(`GROUP BY target_type`).WillReturnRows(
			sqlmock.NewRows([]string{"target_type", "count"}).
				AddRow("announcement", 8).
				AddRow("comment", 5).
				AddRow("user", 2),
		)

		stats, err := repo.GetModerationStats()

		assert.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalPending)
		assert.Equal(t, int64(10), stats.TotalResolved)
		assert.Equal(t, int64(2), stats.TotalDismissed)
		assert.Len(t, stats.ByTargetType, 3)
		assert.Equal(t, "announcement", stats.ByTargetType[0].TargetType)
		assert.Equal(t, int64(8), stats.ByTargetType[0].Count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("没有举报时分组为空", func(t *testing.T) {
		repo, mock := newStatsRepoWithMock(t)

		mock.ExpectQuery(`COUNT\(\*\) FILTER`).WillReturnRows(
			sqlmock.NewRows([]string{"total_pending", "total_resolved", "total_dismissed"}).
				AddRow(0, 0, 0),
		)
		mock.ExpectQuery(`GROUP BY target_type`).WillReturnRows(
			sqlmock.NewRows([]string{"target_type", "count"}),
		)

		stats, err := repo.GetModerationStats()

		assert.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalPending)
		assert.Empty(t, stats.ByTargetType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("查询失败时透传错误", func(t *testing.T) {
		repo, mock := newStatsRepoWithMock(t)

		mock.ExpectQuery(`COUNT\(\*\) FILTER`).WillReturnError(errors.New("connection reset"))

		stats, err := repo.GetModerationStats()

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}
