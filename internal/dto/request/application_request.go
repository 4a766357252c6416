package request

// CreateApplicationRequest 提交领养申请
// 使用位置:
//   - internal/handler/application_handler.go: Create
type CreateApplicationRequest struct {
	PetId   string `json:"petId" binding:"required"`
	Message string `json:"message" binding:"max=500"`
}

// ApplicationListQuery 申请列表查询参数
// Type 为 sent 时查我发出的申请，received 时查我收到的申请
type ApplicationListQuery struct {
	PageQuery
	Type   string `form:"type" binding:"omitempty,oneof=sent received"`
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	PetId  string `form:"pet_id"`
}
