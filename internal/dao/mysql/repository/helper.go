package repository

import (
	"errors"

	"pet_adoption_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey -> CodeConflict（需开启 gorm TranslateError）
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, dbErrorCode(err), msg)
}

// wrapDBErrorf 功能同 wrapDBError，支持格式化消息
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, dbErrorCode(err), format, args...)
}

func dbErrorCode(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorx.CodeConflict
	default:
		return errorx.CodeDBError
	}
}

// likePattern 把用户输入转为 LIKE 子串匹配，转义通配符
func likePattern(s string) string {
	escaped := make([]rune, 0, len(s)+2)
	escaped = append(escaped, '%')
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	return string(append(escaped, '%'))
}

// ==================== 聚合与事务 ====================

// TxFunc 事务执行函数，接收事务内的 Repositories
type TxFunc func(fn func(txRepos *Repositories) error) error

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	transact    TxFunc
	User        UserRepository
	Pet         PetRepository
	PetPhoto    PetPhotoRepository
	Application ApplicationRepository
	Message     MessageRepository
}

// NewRepositories 基于 gorm 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		Pet:         NewPetRepository(db),
		PetPhoto:    NewPetPhotoRepository(db),
		Application: NewApplicationRepository(db),
		Message:     NewMessageRepository(db),
	}
}

// WithTransaction 使用自定义事务实现，供非 gorm 的仓储实现（如内存仓储）使用
func (r *Repositories) WithTransaction(fn TxFunc) *Repositories {
	r.transact = fn
	return r
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.transact != nil {
		return r.transact(fn)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
