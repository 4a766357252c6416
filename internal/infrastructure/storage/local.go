package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticURLPrefix 本地文件对外访问的路由前缀
const StaticURLPrefix = "/static/"

// LocalStorage 本地磁盘存储
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage root 为磁盘根目录，baseURL 为空时返回相对路径 /static/...
func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Root 磁盘根目录，路由层用它挂载静态文件
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Put(_ context.Context, objectPath string, data []byte, _ string) (string, error) {
	objectPath = path.Clean("/" + objectPath)[1:]
	dst := filepath.Join(s.root, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return s.baseURL + StaticURLPrefix + objectPath, nil
}

func (s *LocalStorage) Delete(_ context.Context, publicURL string) error {
	rel, ok := strings.CutPrefix(publicURL, s.baseURL+StaticURLPrefix)
	if !ok || rel == "" {
		return nil
	}
	rel = path.Clean("/" + rel)[1:]
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}
