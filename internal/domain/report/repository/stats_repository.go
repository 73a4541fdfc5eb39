package repository

import (
	"connectcampus/internal/domain/report/model"

	"github.com/jmoiron/sqlx"
)

// StatsRepository 审核统计。聚合查询走 sqlx 裸 SQL，业务 CRUD 仍走 gorm。
type StatsRepository interface {
	GetModerationStats() (*model.ModerationStats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetModerationStats() (*model.ModerationStats, error) {
	var stats model.ModerationStats

	const totalsQuery = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')   AS total_pending,
			COUNT(*) FILTER (WHERE status = 'resolved')  AS total_resolved,
			COUNT(*) FILTER (WHERE status = 'dismissed') AS total_dismissed
		FROM reports
		WHERE deleted_at IS NULL`

	if err := r.db.Get(&stats, totalsQuery); err != nil {
		return nil, err
	}

	const byTypeQuery = `
		SELECT target_type, COUNT(*) AS count
		FROM reports
		WHERE deleted_at IS NULL
		GROUP BY target_type
		ORDER BY count DESC`

	if err := r.db.Select(&stats.ByTargetType, byTypeQuery); err != nil {
		return nil, err
	}

	return &stats, nil
}
