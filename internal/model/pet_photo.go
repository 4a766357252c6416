package model

import "gorm.io/gorm"

// PetPhoto 宠物照片，一张图一行
type PetPhoto struct {
	gorm.Model

	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:照片id"`
	PetId     string `gorm:"column:pet_id;index;type:char(36);not null;comment:宠物id"`
	PhotoUrl  string `gorm:"column:photo_url;type:varchar(500);not null;comment:照片地址"`
	IsPrimary bool   `gorm:"column:is_primary;not null;default:false;comment:是否封面"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0;comment:排序"`
}

// TableName 指定表名
func (PetPhoto) TableName() string {
	return "pet_photo"
}
