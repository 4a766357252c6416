// Package model 定义数据库实体模型
// 本文件定义站内私信模型
package model

import "gorm.io/gorm"

// Message 用户之间的私信
// 对应数据库 message 表，创建后只会修改 is_read
type Message struct {
	gorm.Model

	Uuid       string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:消息id"`
	SenderId   string `gorm:"column:sender_id;index;type:char(36);not null;comment:发送者id"`
	ReceiverId string `gorm:"column:receiver_id;index;type:char(36);not null;comment:接收者id"`
	Content    string `gorm:"column:content;type:text;not null;comment:消息内容"`

	// PetId 关联宠物（可选），空串表示无
	PetId string `gorm:"column:pet_id;type:char(36);comment:关联宠物id"`

	IsRead bool `gorm:"column:is_read;index;not null;default:false;comment:是否已读"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
