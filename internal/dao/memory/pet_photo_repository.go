package memory

import (
	"sort"

	"pet_adoption_server/internal/model"
)

type petPhotoRepository struct {
	s *Store
	tx bool
}

func (r *petPhotoRepository) FindByUuid(uuid string) (*model.PetPhoto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	photo, ok := r.s.photos[uuid]
	if !ok {
		return nil, notFound("照片", uuid)
	}
	return &photo, nil
}

func (r *petPhotoRepository) FindByPetId(petId string) ([]model.PetPhoto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	photos := []model.PetPhoto{}
	for _, photo := range r.s.photos {
		if photo.PetId == petId {
			photos = append(photos, photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].SortOrder != photos[j].SortOrder {
			return photos[i].SortOrder < photos[j].SortOrder
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

func (r *petPhotoRepository) FindPrimaryByPetIds(petIds []string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	wanted := make(map[string]struct{}, len(petIds))
	for _, id := range petIds {
		wanted[id] = struct{}{}
	}
	result := make(map[string]string, len(petIds))
	for _, photo := range r.s.photos {
		if _, ok := wanted[photo.PetId]; ok && photo.IsPrimary {
			result[photo.PetId] = photo.PhotoUrl
		}
	}
	return result, nil
}

func (r *petPhotoRepository) CreateBatch(photos []model.PetPhoto) error {
	defer r.s.lockWrite(r.tx)()
	for i := range photos {
		r.s.stamp(&photos[i].Model)
		r.s.photos[photos[i].Uuid] = photos[i]
	}
	return nil
}

func (r *petPhotoRepository) Delete(uuid string) error {
	defer r.s.lockWrite(r.tx)()
	delete(r.s.photos, uuid)
	return nil
}

func (r *petPhotoRepository) DeleteByPetId(petId string) error {
	defer r.s.lockWrite(r.tx)()
	for id, photo := range r.s.photos {
		if photo.PetId == petId {
			delete(r.s.photos, id)
		}
	}
	return nil
}

func (r *petPhotoRepository) SetPrimary(petId, photoUuid string) error {
	defer r.s.lockWrite(r.tx)()
	for id, photo := range r.s.photos {
		if photo.PetId != petId {
			continue
		}
		photo.IsPrimary = id == photoUuid
		r.s.photos[id] = photo
	}
	return nil
}
