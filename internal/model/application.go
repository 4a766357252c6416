// Package model 定义数据库实体模型
// 本文件定义领养申请模型
package model

import "gorm.io/gorm"

// 申请状态：pending 为初始态，approved / rejected 为终态
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Application 领养申请
// 对应数据库 adoption_application 表
// 同一申请人对同一宠物只能有一条申请，由插入前的存在性检查保证
type Application struct {
	gorm.Model

	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:申请id"`

	PetId       string `gorm:"column:pet_id;uniqueIndex:idx_pet_applicant;type:char(36);not null;comment:宠物id"`
	ApplicantId string `gorm:"column:applicant_id;uniqueIndex:idx_pet_applicant;index;type:char(36);not null;comment:申请人id"`

	// PublisherId 创建时从宠物复制，审批权限以此为准
	PublisherId string `gorm:"column:publisher_id;index;type:char(36);not null;comment:发布者id"`

	Status  string `gorm:"column:status;index;type:varchar(20);not null;default:pending;comment:申请状态"`
	Message string `gorm:"column:message;type:varchar(500);comment:申请留言"`
}

// TableName 指定表名
func (Application) TableName() string {
	return "adoption_application"
}

// IsPending 是否仍可审批
func (a *Application) IsPending() bool {
	return a.Status == ApplicationPending
}
