package repository

import (
	"pet_adoption_server/internal/model"

	"gorm.io/gorm"
)

type petPhotoRepository struct {
	db *gorm.DB
}

// NewPetPhotoRepository 创建宠物照片 Repository
func NewPetPhotoRepository(db *gorm.DB) PetPhotoRepository {
	return &petPhotoRepository{db: db}
}

// FindByUuid 按 UUID 查找照片
func (r *petPhotoRepository) FindByUuid(uuid string) (*model.PetPhoto, error) {
	var photo model.PetPhoto
	if err := r.db.First(&photo, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询照片 uuid=%s", uuid)
	}
	return &photo, nil
}

// FindByPetId 查询宠物的全部照片
func (r *petPhotoRepository) FindByPetId(petId string) ([]model.PetPhoto, error) {
	var photos []model.PetPhoto
	if err := r.db.Where("pet_id = ?", petId).Order("sort_order ASC, id ASC").Find(&photos).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询宠物照片 pet_id=%s", petId)
	}
	return photos, nil
}

// FindPrimaryByPetIds 批量查询封面照片
func (r *petPhotoRepository) FindPrimaryByPetIds(petIds []string) (map[string]string, error) {
	result := make(map[string]string, len(petIds))
	if len(petIds) == 0 {
		return result, nil
	}
	var photos []model.PetPhoto
	if err := r.db.Where("pet_id IN ? AND is_primary = ?", petIds, true).Find(&photos).Error; err != nil {
		return nil, wrapDBError(err, "批量查询封面照片")
	}
	for _, p := range photos {
		result[p.PetId] = p.PhotoUrl
	}
	return result, nil
}

// CreateBatch 批量插入照片
func (r *petPhotoRepository) CreateBatch(photos []model.PetPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	if err := r.db.Create(&photos).Error; err != nil {
		return wrapDBError(err, "保存宠物照片")
	}
	return nil
}

// Delete 删除单张照片
func (r *petPhotoRepository) Delete(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.PetPhoto{}).Error; err != nil {
		return wrapDBErrorf(err, "删除照片 uuid=%s", uuid)
	}
	return nil
}

// DeleteByPetId 删除宠物的全部照片
func (r *petPhotoRepository) DeleteByPetId(petId string) error {
	if err := r.db.Where("pet_id = ?", petId).Delete(&model.PetPhoto{}).Error; err != nil {
		return wrapDBErrorf(err, "删除宠物照片 pet_id=%s", petId)
	}
	return nil
}

// SetPrimary 设置封面，两条 UPDATE 需在同一事务内调用
func (r *petPhotoRepository) SetPrimary(petId, photoUuid string) error {
	if err := r.db.Model(&model.PetPhoto{}).Where("pet_id = ? AND uuid <> ?", petId, photoUuid).
		Update("is_primary", false).Error; err != nil {
		return wrapDBErrorf(err, "取消封面 pet_id=%s", petId)
	}
	if err := r.db.Model(&model.PetPhoto{}).Where("pet_id = ? AND uuid = ?", petId, photoUuid).
		Update("is_primary", true).Error; err != nil {
		return wrapDBErrorf(err, "设置封面 uuid=%s", photoUuid)
	}
	return nil
}
