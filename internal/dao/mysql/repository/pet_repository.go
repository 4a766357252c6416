package repository

import (
	"sort"

	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"

	"gorm.io/gorm"
)

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository 创建宠物 Repository
func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

// FindByUuid 按 UUID 查找宠物
func (r *petRepository) FindByUuid(uuid string) (*model.Pet, error) {
	var pet model.Pet
	if err := r.db.First(&pet, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询宠物 uuid=%s", uuid)
	}
	return &pet, nil
}

// List 按条件分页查询宠物
func (r *petRepository) List(filter PetFilter) ([]model.Pet, int64, error) {
	query := r.db.Model(&model.Pet{})
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		query = query.Where("name LIKE ? OR breed LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}
	if filter.Breed != "" {
		query = query.Where("breed = ?", filter.Breed)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", likePattern(filter.Location))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PublisherId != "" {
		query = query.Where("publisher_id = ?", filter.PublisherId)
	}
	if filter.MinAge != nil {
		query = query.Where("age >= ?", *filter.MinAge)
	}
	if filter.MaxAge != nil {
		query = query.Where("age < ?", *filter.MaxAge)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "统计宠物数量")
	}

	var pets []model.Pet
	if err := query.Order(petOrder(filter.Sort)).Offset(filter.Offset).Limit(filter.Limit).Find(&pets).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询宠物列表")
	}
	return pets, total, nil
}

// petOrder 排序方式映射为 ORDER BY 子句，未知值按最新发布
func petOrder(sort string) string {
	switch sort {
	case SortOldest:
		return "created_at ASC, id ASC"
	case SortAge:
		return "age ASC, id DESC"
	case SortViews:
		return "view_count DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// Create 创建宠物
func (r *petRepository) Create(pet *model.Pet) error {
	if err := r.db.Create(pet).Error; err != nil {
		return wrapDBError(err, "创建宠物")
	}
	return nil
}

// Update 按列更新宠物，修改状态时带上 status <> 'adopted' 条件
func (r *petRepository) Update(uuid string, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	columns := make([]string, 0, len(fields))
	for col := range fields {
		if col == "view_count" {
			return false, errorx.New(errorx.CodeDBError, "更新宠物: view_count 只能原子累加")
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	q := r.db.Model(&model.Pet{}).Where("uuid = ?", uuid)
	if _, ok := fields["status"]; ok {
		q = q.Where("status <> ?", model.PetStatusAdopted)
	}
	res := q.Select(columns).Updates(fields)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "更新宠物 uuid=%s", uuid)
	}
	return res.RowsAffected > 0, nil
}

// Delete 软删除宠物
func (r *petRepository) Delete(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.Pet{}).Error; err != nil {
		return wrapDBErrorf(err, "删除宠物 uuid=%s", uuid)
	}
	return nil
}

// IncrementViewCount 浏览量 +1，使用 UpdateColumn 避免更新 updated_at
func (r *petRepository) IncrementViewCount(uuid string) error {
	if err := r.db.Model(&model.Pet{}).Where("uuid = ?", uuid).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return wrapDBErrorf(err, "增加浏览量 uuid=%s", uuid)
	}
	return nil
}

// MarkAdopted 条件更新：只有未被领养的宠物会被置为 adopted
func (r *petRepository) MarkAdopted(uuid string) (bool, error) {
	res := r.db.Model(&model.Pet{}).
		Where("uuid = ? AND status <> ?", uuid, model.PetStatusAdopted).
		Update("status", model.PetStatusAdopted)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "标记宠物已领养 uuid=%s", uuid)
	}
	return res.RowsAffected > 0, nil
}
