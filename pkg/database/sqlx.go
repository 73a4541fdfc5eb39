package database

import (
	"fmt"
	"log"

	"connectcampus/internal/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// InitSQLX 初始化 sqlx 连接（pgx 驱动）
// GORM 承担常规 CRUD；统计类的裸 SQL 聚合查询走 sqlx，避免为报表结构定义 GORM 模型
func InitSQLX() *sqlx.DB {
	cfg := config.GlobalConfig.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Failed to connect sqlx: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return db
}
