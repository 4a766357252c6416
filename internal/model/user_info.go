// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表，正常流程中不做物理删除
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识（google/uuid 字符串）
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:用户唯一id"`

	// Email 登录邮箱，全局唯一
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`

	// Password bcrypt 哈希后的密码
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	Name      string `gorm:"column:name;type:varchar(50);not null;comment:昵称"`
	Phone     string `gorm:"column:phone;type:varchar(20);comment:电话"`
	Wechat    string `gorm:"column:wechat;type:varchar(50);comment:微信号"`
	AvatarUrl string `gorm:"column:avatar_url;type:varchar(255);comment:头像地址"`

	// Role 角色：admin / user
	Role string `gorm:"column:role;type:varchar(10);not null;default:user;comment:角色"`

	// RawPassword 明文密码（不入库），在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：创建和更新前把 RawPassword 加密到 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) error {
	return u.HashPassword()
}

// HashPassword 加密 RawPassword 并清空明文；内存仓储也复用它
func (u *UserInfo) HashPassword() error {
	if u.RawPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.RawPassword = ""
	return nil
}

// CheckPassword 校验密码是否正确
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// IsAdmin 是否管理员
func (u *UserInfo) IsAdmin() bool {
	return u.Role == RoleAdmin
}
