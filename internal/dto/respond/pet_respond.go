package respond

import (
	"time"

	"pet_adoption_server/internal/model"
)

// PetRespond 宠物列表项
// 使用位置:
//   - internal/service/pet/service.go: List, ListMine
type PetRespond struct {
	Id           string    `json:"id"`
	PublisherId  string    `json:"publisher_id"`
	Name         string    `json:"name"`
	Breed        string    `json:"breed"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Status       string    `json:"status"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	IsVaccinated bool      `json:"is_vaccinated"`
	IsNeutered   bool      `json:"is_neutered"`
	IsDewormed   bool      `json:"is_dewormed"`
	ViewCount    int64     `json:"view_count"`
	PrimaryPhoto string    `json:"primary_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PetDetailRespond 宠物详情，带照片和发布者信息，整体写入 Redis 缓存
type PetDetailRespond struct {
	PetRespond
	Photos    []PhotoRespond     `json:"photos"`
	Publisher *PublicUserRespond `json:"publisher,omitempty"`
}

// PhotoRespond 宠物照片
type PhotoRespond struct {
	Id        string `json:"id"`
	PetId     string `json:"pet_id"`
	PhotoUrl  string `json:"photo_url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// PetSummary 申请详情中引用的宠物摘要
type PetSummary struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Breed        string `json:"breed"`
	Status       string `json:"status"`
	PrimaryPhoto string `json:"primary_photo,omitempty"`
}

// NewPetRespond 转换为 PetRespond
func NewPetRespond(p *model.Pet, primaryPhoto string) PetRespond {
	return PetRespond{
		Id:           p.Uuid,
		PublisherId:  p.PublisherId,
		Name:         p.Name,
		Breed:        p.Breed,
		Age:          p.Age,
		Gender:       p.Gender,
		Status:       p.Status,
		Description:  p.Description,
		Location:     p.Location,
		IsVaccinated: p.IsVaccinated,
		IsNeutered:   p.IsNeutered,
		IsDewormed:   p.IsDewormed,
		ViewCount:    p.ViewCount,
		PrimaryPhoto: primaryPhoto,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewPhotoRespond 转换为 PhotoRespond
func NewPhotoRespond(p *model.PetPhoto) PhotoRespond {
	return PhotoRespond{
		Id:        p.Uuid,
		PetId:     p.PetId,
		PhotoUrl:  p.PhotoUrl,
		IsPrimary: p.IsPrimary,
		SortOrder: p.SortOrder,
	}
}

// NewPhotoListRespond 批量转换照片
func NewPhotoListRespond(photos []model.PetPhoto) []PhotoRespond {
	list := make([]PhotoRespond, 0, len(photos))
	for i := range photos {
		list = append(list, NewPhotoRespond(&photos[i]))
	}
	return list
}
