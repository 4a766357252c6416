package request

// PetListQuery 宠物列表查询参数
// 使用位置:
//   - internal/handler/pet_handler.go: List
//   - internal/service/pet/service.go: List
type PetListQuery struct {
	PageQuery
	Keyword     string `form:"keyword" binding:"omitempty,max=50"`
	Breed       string `form:"breed"`
	Age         string `form:"age" binding:"omitempty,oneof=puppy young adult senior"`
	Gender      string `form:"gender" binding:"omitempty,oneof=male female unknown"`
	Location    string `form:"location"`
	Status      string `form:"status" binding:"omitempty,oneof=available pending adopted all"`
	PublisherId string `form:"publisher_id"`
	Sort        string `form:"sort" binding:"omitempty,oneof=newest oldest age views"`
}

// CreatePetRequest 发布宠物，支持 JSON 和 multipart 两种提交方式
// multipart 时照片放在 photos 字段，PrimaryIndex 指定封面下标
type CreatePetRequest struct {
	Name         string `json:"name" form:"name" binding:"required,max=50"`
	Breed        string `json:"breed" form:"breed" binding:"max=50"`
	Age          int    `json:"age" form:"age" binding:"min=0,max=360"`
	Gender       string `json:"gender" form:"gender" binding:"omitempty,oneof=male female unknown"`
	Description  string `json:"description" form:"description" binding:"max=2000"`
	Location     string `json:"location" form:"location" binding:"max=100"`
	IsVaccinated bool   `json:"isVaccinated" form:"is_vaccinated"`
	IsNeutered   bool   `json:"isNeutered" form:"is_neutered"`
	IsDewormed   bool   `json:"isDewormed" form:"is_dewormed"`
	PrimaryIndex int    `json:"-" form:"primary_index" binding:"min=0"`
}

// UpdatePetRequest 编辑宠物，字段为 nil 表示不修改
// adopted 只能由审批流程写入
type UpdatePetRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=50"`
	Breed        *string `json:"breed" binding:"omitempty,max=50"`
	Age          *int    `json:"age" binding:"omitempty,min=0,max=360"`
	Gender       *string `json:"gender" binding:"omitempty,oneof=male female unknown"`
	Status       *string `json:"status" binding:"omitempty,oneof=available pending"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	Location     *string `json:"location" binding:"omitempty,max=100"`
	IsVaccinated *bool   `json:"isVaccinated"`
	IsNeutered   *bool   `json:"isNeutered"`
	IsDewormed   *bool   `json:"isDewormed"`
}
