package memory

import (
	"strings"

	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"
)

type userRepository struct {
	s *Store
	tx bool
}

func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[uuid]
	if !ok {
		return nil, notFound("用户", uuid)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "用户 email=%s 不存在", email)
}

func (r *userRepository) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]model.UserInfo, 0, len(uuids))
	for _, id := range uuids {
		if user, ok := r.s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepository) List(keyword string, offset, limit int) ([]model.UserInfo, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keyword = strings.ToLower(keyword)
	var users []model.UserInfo
	for _, user := range r.s.users {
		if keyword != "" && !containsFold(user.Email, keyword) && !containsFold(user.Name, keyword) {
			continue
		}
		users = append(users, user)
	}
	sortByID(users, func(u model.UserInfo) uint { return u.ID }, true)
	return page(users, offset, limit), int64(len(users)), nil
}

func (r *userRepository) Create(user *model.UserInfo) error {
	if err := user.HashPassword(); err != nil {
		return errorx.Wrap(err, errorx.CodeDBError, "创建用户")
	}
	defer r.s.lockWrite(r.tx)()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return errorx.Newf(errorx.CodeConflict, "创建用户: email=%s 已存在", user.Email)
		}
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	r.s.stamp(&user.Model)
	r.s.users[user.Uuid] = *user
	return nil
}

func (r *userRepository) Update(user *model.UserInfo) error {
	if err := user.HashPassword(); err != nil {
		return errorx.Wrap(err, errorx.CodeDBError, "更新用户信息")
	}
	defer r.s.lockWrite(r.tx)()
	if _, ok := r.s.users[user.Uuid]; !ok {
		return notFound("用户", user.Uuid)
	}
	r.s.users[user.Uuid] = *user
	return nil
}

func (r *userRepository) UpdateRole(uuid, role string) error {
	defer r.s.lockWrite(r.tx)()
	user, ok := r.s.users[uuid]
	if !ok {
		return nil
	}
	user.Role = role
	r.s.users[uuid] = user
	return nil
}

// containsFold 忽略大小写的子串匹配，needle 需已转小写
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
