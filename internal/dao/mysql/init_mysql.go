// Package mysql 负责建立 MySQL 连接、迁移表结构并组装 Repository 层
package mysql

import (
	"fmt"
	"time"

	"pet_adoption_server/internal/config"
	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 连接数据库并返回 Repository 聚合
//  1. 根据配置构建 DSN
//  2. 打开 gorm 连接并设置连接池
//  3. AutoMigrate 全部业务表
func Init(conf *config.MysqlConfig) (*repository.Repositories, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	zap.L().Info("mysql 初始化完成",
		zap.String("host", conf.Host),
		zap.String("database", conf.DatabaseName))
	return repository.NewRepositories(db), nil
}

// DSN 格式：user:password@tcp(host:port)/database?params
func DSN(conf *config.MysqlConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName)
}

// Open 打开 gorm 连接
func Open(conf *config.MysqlConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysqldriver.Open(DSN(conf)), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("连接 mysql 失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取 sql.DB 失败: %w", err)
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Migrate 自动迁移表结构，不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserInfo{},
		&model.Pet{},
		&model.PetPhoto{},
		&model.Application{},
		&model.Message{},
	); err != nil {
		return fmt.Errorf("迁移表结构失败: %w", err)
	}
	return nil
}
