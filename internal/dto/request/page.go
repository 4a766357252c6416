package request

import "pet_adoption_server/pkg/constants"

// PageQuery 通用分页参数，limit 超过上限时由 Service 截断
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// Normalize 补全默认值并截断 limit，返回 page、limit 和 offset
func (q PageQuery) Normalize() (page, limit, offset int) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = constants.DEFAULT_PAGE_SIZE
	}
	if limit > constants.MAX_PAGE_SIZE {
		limit = constants.MAX_PAGE_SIZE
	}
	return page, limit, (page - 1) * limit
}
