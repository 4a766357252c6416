// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"pet_adoption_server/internal/model"
)

// ==================== 查询条件 ====================

// 宠物列表排序方式
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortAge    = "age"
	SortViews  = "views"
)

// PetFilter 宠物列表查询条件，零值字段表示不过滤
type PetFilter struct {
	Keyword     string // 名字/品种/描述模糊匹配
	Breed       string
	Gender      string
	Location    string // 模糊匹配
	Status      string
	PublisherId string
	MinAge      *int // 含
	MaxAge      *int // 不含
	Sort        string
	Offset      int
	Limit       int
}

// ApplicationFilter 申请列表查询条件
type ApplicationFilter struct {
	ApplicantId string
	PublisherId string
	PetId       string
	Status      string
	Offset      int
	Limit       int
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(email string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	// List 分页查询用户（管理员），keyword 匹配邮箱或昵称
	List(keyword string, offset, limit int) ([]model.UserInfo, int64, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
	// Update 更新用户信息
	Update(user *model.UserInfo) error
	// UpdateRole 修改用户角色
	UpdateRole(uuid, role string) error
}

// PetRepository 宠物数据访问接口
type PetRepository interface {
	FindByUuid(uuid string) (*model.Pet, error)
	List(filter PetFilter) ([]model.Pet, int64, error)
	Create(pet *model.Pet) error
	// Update 只写入 fields 中的列（列名为 key），不会触碰 view_count
	// fields 含 status 时仅对未被领养的宠物生效，返回是否命中记录
	Update(uuid string, fields map[string]any) (bool, error)
	Delete(uuid string) error
	// IncrementViewCount 浏览量原子 +1
	IncrementViewCount(uuid string) error
	// MarkAdopted 仅当宠物尚未被领养时置为 adopted，返回是否更新成功
	MarkAdopted(uuid string) (bool, error)
}

// PetPhotoRepository 宠物照片数据访问接口
type PetPhotoRepository interface {
	FindByUuid(uuid string) (*model.PetPhoto, error)
	// FindByPetId 按 sort_order 返回宠物的全部照片
	FindByPetId(petId string) ([]model.PetPhoto, error)
	// FindPrimaryByPetIds 批量查询封面，返回 petId -> photoUrl
	FindPrimaryByPetIds(petIds []string) (map[string]string, error)
	CreateBatch(photos []model.PetPhoto) error
	Delete(uuid string) error
	DeleteByPetId(petId string) error
	// SetPrimary 把指定照片设为封面，同宠物其他照片取消封面
	SetPrimary(petId, photoUuid string) error
}

// ApplicationRepository 领养申请数据访问接口
type ApplicationRepository interface {
	FindByUuid(uuid string) (*model.Application, error)
	// FindByPetAndApplicant 查询同一申请人对同一宠物的申请
	FindByPetAndApplicant(petId, applicantId string) (*model.Application, error)
	// FindPendingByPetId 查询宠物下所有待处理申请
	FindPendingByPetId(petId string) ([]model.Application, error)
	List(filter ApplicationFilter) ([]model.Application, int64, error)
	Create(app *model.Application) error
	// UpdateStatusIfPending 仅当申请仍为 pending 时更新状态，返回是否更新成功
	UpdateStatusIfPending(uuid, status string) (bool, error)
	// RejectPendingExcept 把宠物下除 exceptUuid 外的 pending 申请全部置为 rejected
	RejectPendingExcept(petId, exceptUuid string) (int64, error)
}

// MessageRepository 私信数据访问接口
type MessageRepository interface {
	FindByUuid(uuid string) (*model.Message, error)
	Create(message *model.Message) error
	// FindConversation 两个用户之间的双向消息，按时间正序
	FindConversation(userOneId, userTwoId string, offset, limit int) ([]model.Message, int64, error)
	// FindByReceiver 收件箱，按时间倒序
	FindByReceiver(receiverId string, offset, limit int) ([]model.Message, int64, error)
	// FindRecentByUser 用户收发的最近 limit 条消息，按时间倒序
	FindRecentByUser(userId string, limit int) ([]model.Message, error)
	MarkRead(uuid string) error
	// MarkConversationRead 把 senderId 发给 receiverId 的未读消息置为已读
	MarkConversationRead(receiverId, senderId string) error
	CountUnread(receiverId string) (int64, error)
	// CountUnreadBySender 按发送者分组统计未读数
	CountUnreadBySender(receiverId string) (map[string]int64, error)
}
