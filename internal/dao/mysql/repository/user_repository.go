package repository

import (
	"pet_adoption_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 按邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// FindByUuids 按 UUID 列表查找用户
func (r *userRepository) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if len(uuids) == 0 {
		return users, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// List 分页查询用户
func (r *userRepository) List(keyword string, offset, limit int) ([]model.UserInfo, int64, error) {
	query := r.db.Model(&model.UserInfo{})
	if keyword != "" {
		pattern := likePattern(keyword)
		query = query.Where("email LIKE ? OR name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "统计用户数量")
	}
	var users []model.UserInfo
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询用户列表")
	}
	return users, total, nil
}

// Create 创建用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// Update 更新用户信息
func (r *userRepository) Update(user *model.UserInfo) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBError(err, "更新用户信息")
	}
	return nil
}

// UpdateRole 修改用户角色
func (r *userRepository) UpdateRole(uuid, role string) error {
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).Update("role", role).Error; err != nil {
		return wrapDBErrorf(err, "更新用户角色 uuid=%s", uuid)
	}
	return nil
}
