package memory

import (
	"sort"
	"strings"
	"time"

	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"
)

type petRepository struct {
	s *Store
	tx bool
}

func (r *petRepository) FindByUuid(uuid string) (*model.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pet, ok := r.s.pets[uuid]
	if !ok {
		return nil, notFound("宠物", uuid)
	}
	return &pet, nil
}

func (r *petRepository) List(filter repository.PetFilter) ([]model.Pet, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var pets []model.Pet
	for _, pet := range r.s.pets {
		if matchPet(pet, filter) {
			pets = append(pets, pet)
		}
	}
	sortPets(pets, filter.Sort)
	return page(pets, filter.Offset, filter.Limit), int64(len(pets)), nil
}

func matchPet(pet model.Pet, f repository.PetFilter) bool {
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !containsFold(pet.Name, kw) && !containsFold(pet.Breed, kw) && !containsFold(pet.Description, kw) {
			return false
		}
	}
	if f.Breed != "" && !strings.EqualFold(pet.Breed, f.Breed) {
		return false
	}
	if f.Gender != "" && pet.Gender != f.Gender {
		return false
	}
	if f.Location != "" && !containsFold(pet.Location, strings.ToLower(f.Location)) {
		return false
	}
	if f.Status != "" && pet.Status != f.Status {
		return false
	}
	if f.PublisherId != "" && pet.PublisherId != f.PublisherId {
		return false
	}
	if f.MinAge != nil && pet.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && pet.Age >= *f.MaxAge {
		return false
	}
	return true
}

func sortPets(pets []model.Pet, order string) {
	sort.Slice(pets, func(i, j int) bool {
		a, b := pets[i], pets[j]
		switch order {
		case repository.SortOldest:
			return a.ID < b.ID
		case repository.SortAge:
			if a.Age != b.Age {
				return a.Age < b.Age
			}
		case repository.SortViews:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
		}
		return a.ID > b.ID
	})
}

func (r *petRepository) Create(pet *model.Pet) error {
	defer r.s.lockWrite(r.tx)()
	if pet.Status == "" {
		pet.Status = model.PetStatusAvailable
	}
	if pet.Gender == "" {
		pet.Gender = model.GenderUnknown
	}
	r.s.stamp(&pet.Model)
	r.s.pets[pet.Uuid] = *pet
	return nil
}

func (r *petRepository) Update(uuid string, fields map[string]any) (bool, error) {
	defer r.s.lockWrite(r.tx)()
	pet, ok := r.s.pets[uuid]
	if !ok {
		return false, nil
	}
	if _, ok := fields["status"]; ok && pet.Status == model.PetStatusAdopted {
		return false, nil
	}
	for col, v := range fields {
		if err := setPetColumn(&pet, col, v); err != nil {
			return false, err
		}
	}
	pet.UpdatedAt = time.Now()
	r.s.pets[uuid] = pet
	return true, nil
}

// setPetColumn 按 gorm 列名写入单个字段
func setPetColumn(pet *model.Pet, col string, v any) error {
	var ok bool
	switch col {
	case "name":
		pet.Name, ok = v.(string)
	case "breed":
		pet.Breed, ok = v.(string)
	case "age":
		pet.Age, ok = v.(int)
	case "gender":
		pet.Gender, ok = v.(string)
	case "status":
		pet.Status, ok = v.(string)
	case "description":
		pet.Description, ok = v.(string)
	case "location":
		pet.Location, ok = v.(string)
	case "is_vaccinated":
		pet.IsVaccinated, ok = v.(bool)
	case "is_neutered":
		pet.IsNeutered, ok = v.(bool)
	case "is_dewormed":
		pet.IsDewormed, ok = v.(bool)
	}
	if !ok {
		return errorx.Newf(errorx.CodeDBError, "更新宠物: 不支持的列 %s=%v", col, v)
	}
	return nil
}

func (r *petRepository) Delete(uuid string) error {
	defer r.s.lockWrite(r.tx)()
	delete(r.s.pets, uuid)
	return nil
}

func (r *petRepository) IncrementViewCount(uuid string) error {
	defer r.s.lockWrite(r.tx)()
	if pet, ok := r.s.pets[uuid]; ok {
		pet.ViewCount++
		r.s.pets[uuid] = pet
	}
	return nil
}

func (r *petRepository) MarkAdopted(uuid string) (bool, error) {
	defer r.s.lockWrite(r.tx)()
	pet, ok := r.s.pets[uuid]
	if !ok || pet.Status == model.PetStatusAdopted {
		return false, nil
	}
	pet.Status = model.PetStatusAdopted
	r.s.pets[uuid] = pet
	return true, nil
}
