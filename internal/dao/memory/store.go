// Package memory 提供进程内的 Repository 与缓存实现
// daoConfig.driver = "memory" 时使用，也用于 Service 层与端到端测试
package memory

import (
	"sort"
	"sync"
	"time"

	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"

	"gorm.io/gorm"
)

// Store 保存全部实体，值拷贝存储，读写都返回副本
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	seq  uint

	users    map[string]model.UserInfo
	pets     map[string]model.Pet
	photos   map[string]model.PetPhoto
	apps     map[string]model.Application
	messages map[string]model.Message
}

// NewStore 创建空 Store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]model.UserInfo),
		pets:     make(map[string]model.Pet),
		photos:   make(map[string]model.PetPhoto),
		apps:     make(map[string]model.Application),
		messages: make(map[string]model.Message),
	}
}

// NewRepositories 基于 Store 组装 Repository 聚合
// 事务通过快照实现：fn 返回错误或 panic 时恢复到执行前的数据
// 事务期间事务外的写入会阻塞到事务结束，回滚不会吞掉其他请求的写入
func NewRepositories(s *Store) *repository.Repositories {
	txRepos := newRepositories(s, true)
	// 嵌套事务并入外层事务
	txRepos.WithTransaction(func(fn func(txRepos *repository.Repositories) error) error {
		return fn(txRepos)
	})
	return newRepositories(s, false).WithTransaction(func(fn func(txRepos *repository.Repositories) error) error {
		return s.transaction(func() error { return fn(txRepos) })
	})
}

func newRepositories(s *Store, tx bool) *repository.Repositories {
	return &repository.Repositories{
		User:        &userRepository{s: s, tx: tx},
		Pet:         &petRepository{s: s, tx: tx},
		PetPhoto:    &petPhotoRepository{s: s, tx: tx},
		Application: &applicationRepository{s: s, tx: tx},
		Message:     &messageRepository{s: s, tx: tx},
	}
}

type snapshot struct {
	seq      uint
	users    map[string]model.UserInfo
	pets     map[string]model.Pet
	photos   map[string]model.PetPhoto
	apps     map[string]model.Application
	messages map[string]model.Message
}

func (s *Store) transaction(fn func() error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if rec := recover(); rec != nil {
			s.restore(snap)
			panic(rec)
		}
		if err != nil {
			s.restore(snap)
		}
	}()
	return fn()
}

// lockWrite 获取写锁并返回解锁函数
// inTx 为 false 时先取 txMu，等待进行中的事务提交或回滚
func (s *Store) lockWrite(inTx bool) (unlock func()) {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		seq:      s.seq,
		users:    cloneMap(s.users),
		pets:     cloneMap(s.pets),
		photos:   cloneMap(s.photos),
		apps:     cloneMap(s.apps),
		messages: cloneMap(s.messages),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.users = snap.users
	s.pets = snap.pets
	s.photos = snap.photos
	s.apps = snap.apps
	s.messages = snap.messages
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// stamp 模拟 gorm 创建时填充的自增主键与时间戳，调用方需持有写锁
func (s *Store) stamp(m *gorm.Model) {
	s.seq++
	now := time.Now()
	m.ID = s.seq
	m.CreatedAt = now
	m.UpdatedAt = now
}

func notFound(entity, uuid string) error {
	return errorx.Newf(errorx.CodeNotFound, "%s uuid=%s 不存在", entity, uuid)
}

// sortByID 按主键排序，主键与插入顺序一致
func sortByID[T any](items []T, id func(T) uint, desc bool) {
	sort.Slice(items, func(i, j int) bool {
		if desc {
			return id(items[i]) > id(items[j])
		}
		return id(items[i]) < id(items[j])
	})
}

// page 按 offset/limit 截取，limit <= 0 表示不限制
func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
