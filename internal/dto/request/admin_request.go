package request

// UserListQuery 管理员查询用户列表
type UserListQuery struct {
	PageQuery
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// SetRoleRequest 管理员修改用户角色
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}
