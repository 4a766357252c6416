// Package storage 提供头像与宠物照片的对象存储
// local 模式写本地磁盘并由 /static 提供访问，supabase 模式走 Storage REST API
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"pet_adoption_server/internal/config"
)

// Storage 对象存储接口，返回可公开访问的 URL
type Storage interface {
	// Put 保存对象，objectPath 形如 pets/250101AbC.jpg
	Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
	// Delete 按 Put 返回的 URL 删除对象，不属于本存储的 URL 直接忽略
	Delete(ctx context.Context, publicURL string) error
}

// New 根据配置创建存储实现
func New(conf *config.StorageConfig, static *config.StaticSrcConfig) (Storage, error) {
	switch conf.Backend {
	case "", "local":
		return NewLocalStorage(filepath.Clean(static.StaticRoot), conf.BaseURL), nil
	case "supabase":
		return NewSupabaseStorage(conf.SupabaseURL, conf.ServiceKey, conf.Bucket, nil)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", conf.Backend)
	}
}
