package pet

import (
	"context"
	"mime/multipart"

	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// savePhotos 逐张写入存储，任意一张失败时回滚已写入的文件
// primary < 0 表示不设置封面
func (s *petService) savePhotos(ctx context.Context, petId string, files []*multipart.FileHeader, startOrder, primary int) ([]model.PetPhoto, error) {
	records := make([]model.PetPhoto, 0, len(files))
	for i, fh := range files {
		url, err := storage.SaveImage(ctx, s.storage, fh, s.opts.PhotoDir, s.opts.MaxUploadBytes)
		if err != nil {
			s.removeFiles(ctx, records)
			if errorx.HasCode(err, errorx.CodeInvalidParam) {
				return nil, err
			}
			zap.L().Error("保存宠物照片失败", zap.String("pet_id", petId), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		records = append(records, model.PetPhoto{
			Uuid:      uuid.NewString(),
			PetId:     petId,
			PhotoUrl:  url,
			IsPrimary: i == primary,
			SortOrder: startOrder + i,
		})
	}
	return records, nil
}

func (s *petService) removeFiles(ctx context.Context, photos []model.PetPhoto) {
	for _, p := range photos {
		if err := s.storage.Delete(ctx, p.PhotoUrl); err != nil {
			zap.L().Warn("删除照片文件失败", zap.String("url", p.PhotoUrl), zap.Error(err))
		}
	}
}

// ListPhotos 宠物照片列表
func (s *petService) ListPhotos(ctx context.Context, petId string) ([]respond.PhotoRespond, error) {
	if _, err := s.loadPet(petId); err != nil {
		return nil, err
	}
	photos, err := s.repos.PetPhoto.FindByPetId(petId)
	if err != nil {
		zap.L().Error("查询宠物照片失败", zap.String("pet_id", petId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return respond.NewPhotoListRespond(photos), nil
}

// AddPhotos 追加照片，宠物原本没有封面时第一张新照片成为封面
func (s *petService) AddPhotos(ctx context.Context, petId, actorId string, isAdmin bool, files []*multipart.FileHeader) ([]respond.PhotoRespond, error) {
	if len(files) == 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "请选择要上传的照片")
	}
	if _, err := s.authorize(petId, actorId, isAdmin); err != nil {
		return nil, err
	}
	existing, err := s.repos.PetPhoto.FindByPetId(petId)
	if err != nil {
		zap.L().Error("查询宠物照片失败", zap.String("pet_id", petId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(existing)+len(files) > constants.MAX_PET_PHOTOS {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "最多上传 %d 张照片", constants.MAX_PET_PHOTOS)
	}

	nextOrder, primary := 0, 0
	for _, p := range existing {
		if p.SortOrder >= nextOrder {
			nextOrder = p.SortOrder + 1
		}
		if p.IsPrimary {
			primary = -1
		}
	}
	records, err := s.savePhotos(ctx, petId, files, nextOrder, primary)
	if err != nil {
		return nil, err
	}
	if err := s.repos.PetPhoto.CreateBatch(records); err != nil {
		s.removeFiles(ctx, records)
		zap.L().Error("保存照片记录失败", zap.String("pet_id", petId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	s.invalidate(ctx, petId)
	return s.ListPhotos(ctx, petId)
}

func (s *petService) loadPhoto(petId, photoId string) (*model.PetPhoto, error) {
	photo, err := s.repos.PetPhoto.FindByUuid(photoId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "照片不存在")
		}
		zap.L().Error("查询照片失败", zap.String("photo_id", photoId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if photo.PetId != petId {
		return nil, errorx.New(errorx.CodeNotFound, "照片不存在")
	}
	return photo, nil
}

// DeletePhoto 删除照片，删掉的是封面时把排序最前的照片设为新封面
func (s *petService) DeletePhoto(ctx context.Context, petId, photoId, actorId string, isAdmin bool) error {
	if _, err := s.authorize(petId, actorId, isAdmin); err != nil {
		return err
	}
	photo, err := s.loadPhoto(petId, photoId)
	if err != nil {
		return err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.PetPhoto.Delete(photoId); err != nil {
			return err
		}
		if !photo.IsPrimary {
			return nil
		}
		rest, err := tx.PetPhoto.FindByPetId(petId)
		if err != nil || len(rest) == 0 {
			return err
		}
		return tx.PetPhoto.SetPrimary(petId, rest[0].Uuid)
	})
	if err != nil {
		zap.L().Error("删除照片失败", zap.String("photo_id", photoId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.removeFiles(ctx, []model.PetPhoto{*photo})
	s.invalidate(ctx, petId)
	return nil
}

// SetPrimaryPhoto 设置封面
func (s *petService) SetPrimaryPhoto(ctx context.Context, petId, photoId, actorId string, isAdmin bool) error {
	if _, err := s.authorize(petId, actorId, isAdmin); err != nil {
		return err
	}
	if _, err := s.loadPhoto(petId, photoId); err != nil {
		return err
	}
	if err := s.repos.PetPhoto.SetPrimary(petId, photoId); err != nil {
		zap.L().Error("设置封面失败", zap.String("photo_id", photoId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.invalidate(ctx, petId)
	return nil
}
