// Package repository 提供数据访问层的具体实现
// 本文件实现 ApplicationRepository 接口，处理领养申请相关的数据库操作
package repository

import (
	"pet_adoption_server/internal/model"

	"gorm.io/gorm"
)

// applicationRepository ApplicationRepository 接口的实现
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository 创建 ApplicationRepository 实例
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindByUuid 按 UUID 查找申请
func (r *applicationRepository) FindByUuid(uuid string) (*model.Application, error) {
	var app model.Application
	if err := r.db.First(&app, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询申请 uuid=%s", uuid)
	}
	return &app, nil
}

// FindByPetAndApplicant 用于检查是否重复申请
func (r *applicationRepository) FindByPetAndApplicant(petId, applicantId string) (*model.Application, error) {
	var app model.Application
	if err := r.db.Where("pet_id = ? AND applicant_id = ?", petId, applicantId).First(&app).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询申请 pet_id=%s applicant_id=%s", petId, applicantId)
	}
	return &app, nil
}

// FindPendingByPetId 查询宠物下所有待处理申请
func (r *applicationRepository) FindPendingByPetId(petId string) ([]model.Application, error) {
	var apps []model.Application
	if err := r.db.Where("pet_id = ? AND status = ?", petId, model.ApplicationPending).Find(&apps).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 pet_id=%s", petId)
	}
	return apps, nil
}

// List 按条件分页查询申请，按创建时间倒序
func (r *applicationRepository) List(filter ApplicationFilter) ([]model.Application, int64, error) {
	query := r.db.Model(&model.Application{})
	if filter.ApplicantId != "" {
		query = query.Where("applicant_id = ?", filter.ApplicantId)
	}
	if filter.PublisherId != "" {
		query = query.Where("publisher_id = ?", filter.PublisherId)
	}
	if filter.PetId != "" {
		query = query.Where("pet_id = ?", filter.PetId)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "统计申请数量")
	}
	var apps []model.Application
	if err := query.Order("created_at DESC, id DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&apps).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询申请列表")
	}
	return apps, total, nil
}

// Create 创建新的申请记录
func (r *applicationRepository) Create(app *model.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return wrapDBError(err, "创建领养申请")
	}
	return nil
}

// UpdateStatusIfPending 条件更新 WHERE status = 'pending'，并发审批时只有一方成功
func (r *applicationRepository) UpdateStatusIfPending(uuid, status string) (bool, error) {
	res := r.db.Model(&model.Application{}).
		Where("uuid = ? AND status = ?", uuid, model.ApplicationPending).
		Update("status", status)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "更新申请状态 uuid=%s", uuid)
	}
	return res.RowsAffected > 0, nil
}

// RejectPendingExcept 自动拒绝同宠物的其他待处理申请
func (r *applicationRepository) RejectPendingExcept(petId, exceptUuid string) (int64, error) {
	res := r.db.Model(&model.Application{}).
		Where("pet_id = ? AND uuid <> ? AND status = ?", petId, exceptUuid, model.ApplicationPending).
		Update("status", model.ApplicationRejected)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "拒绝其他申请 pet_id=%s", petId)
	}
	return res.RowsAffected, nil
}
