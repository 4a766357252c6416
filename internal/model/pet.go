// Package model 定义数据库实体模型
// 本文件定义待领养宠物模型
package model

import "gorm.io/gorm"

// 宠物状态
const (
	PetStatusAvailable = "available" // 可申请
	PetStatusPending   = "pending"   // 沟通中（发布者手动设置）
	PetStatusAdopted   = "adopted"   // 已被领养
)

// 宠物性别
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// Pet 宠物信息模型
// 对应数据库 pet 表，status 由领养申请流程驱动
type Pet struct {
	gorm.Model

	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:宠物唯一id"`

	// PublisherId 发布者 UserInfo.Uuid
	PublisherId string `gorm:"column:publisher_id;index;type:char(36);not null;comment:发布者id"`

	Name  string `gorm:"column:name;type:varchar(50);not null;comment:名字"`
	Breed string `gorm:"column:breed;index;type:varchar(50);comment:品种"`

	// Age 年龄（月）
	Age int `gorm:"column:age;not null;default:0;comment:年龄(月)"`

	Gender      string `gorm:"column:gender;type:varchar(10);not null;default:unknown;comment:性别"`
	Status      string `gorm:"column:status;index;type:varchar(20);not null;default:available;comment:状态"`
	Description string `gorm:"column:description;type:text;comment:描述"`
	Location    string `gorm:"column:location;type:varchar(100);comment:所在地"`

	IsVaccinated bool `gorm:"column:is_vaccinated;not null;default:false;comment:已接种疫苗"`
	IsNeutered   bool `gorm:"column:is_neutered;not null;default:false;comment:已绝育"`
	IsDewormed   bool `gorm:"column:is_dewormed;not null;default:false;comment:已驱虫"`

	ViewCount int64 `gorm:"column:view_count;not null;default:0;comment:浏览量"`
}

// TableName 指定表名
func (Pet) TableName() string {
	return "pet"
}
