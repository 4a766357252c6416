// Package pet 宠物发布、检索、详情缓存与照片管理
package pet

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"

	"pet_adoption_server/internal/dao/mysql/repository"
	myredis "pet_adoption_server/internal/dao/redis"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options 照片与缓存配置
type Options struct {
	PhotoDir       string // 对象存储中的宠物照片目录
	MaxUploadBytes int64
	DetailTTL      time.Duration
}

type petService struct {
	repos   *repository.Repositories
	cache   myredis.AsyncCacheService
	storage storage.Storage
	opts    Options
}

// NewPetService 构造函数
func NewPetService(repos *repository.Repositories, cache myredis.AsyncCacheService, st storage.Storage, opts Options) *petService {
	if opts.PhotoDir == "" {
		opts.PhotoDir = "pets"
	}
	if opts.DetailTTL <= 0 {
		opts.DetailTTL = constants.PET_DETAIL_TTL * time.Second
	}
	return &petService{repos: repos, cache: cache, storage: st, opts: opts}
}

// DetailCacheKey 宠物详情缓存 key，审批流程改动宠物状态后也用它失效缓存
func DetailCacheKey(petId string) string {
	return constants.PET_DETAIL_KEY_PREFIX + petId
}

var (
	errPetNotFound   = errorx.New(errorx.CodeNotFound, "宠物不存在")
	errAdoptedStatus = errorx.New(errorx.CodeConflict, "宠物已被领养，不能修改状态")
)

// ageRange 年龄段（月）映射为 [min, max)
func ageRange(bucket string) (lo, hi *int) {
	bound := func(v int) *int { return &v }
	switch bucket {
	case "puppy":
		return nil, bound(12)
	case "young":
		return bound(12), bound(36)
	case "adult":
		return bound(36), bound(96)
	case "senior":
		return bound(96), nil
	}
	return nil, nil
}

// List 宠物列表，status 默认 available，all 表示不过滤
func (s *petService) List(ctx context.Context, q request.PetListQuery) ([]respond.PetRespond, *respond.PageMeta, error) {
	page, limit, offset := q.Normalize()
	filter := repository.PetFilter{
		Keyword:     strings.TrimSpace(q.Keyword),
		Breed:       strings.TrimSpace(q.Breed),
		Gender:      q.Gender,
		Location:    strings.TrimSpace(q.Location),
		Status:      q.Status,
		PublisherId: q.PublisherId,
		Sort:        q.Sort,
		Offset:      offset,
		Limit:       limit,
	}
	switch filter.Status {
	case "":
		filter.Status = model.PetStatusAvailable
	case "all":
		filter.Status = ""
	}
	if filter.Sort == "" {
		filter.Sort = repository.SortNewest
	}
	filter.MinAge, filter.MaxAge = ageRange(q.Age)

	list, total, err := s.list(filter)
	if err != nil {
		return nil, nil, err
	}
	return list, &respond.PageMeta{Total: total, Page: page, Limit: limit}, nil
}

// ListMine 我发布的宠物，包含所有状态
func (s *petService) ListMine(ctx context.Context, publisherId string, q request.PageQuery) ([]respond.PetRespond, *respond.PageMeta, error) {
	page, limit, offset := q.Normalize()
	list, total, err := s.list(repository.PetFilter{
		PublisherId: publisherId,
		Sort:        repository.SortNewest,
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return list, &respond.PageMeta{Total: total, Page: page, Limit: limit}, nil
}

func (s *petService) list(filter repository.PetFilter) ([]respond.PetRespond, int64, error) {
	pets, total, err := s.repos.Pet.List(filter)
	if err != nil {
		zap.L().Error("查询宠物列表失败", zap.Error(err))
		return nil, 0, errorx.ErrServerBusy
	}
	ids := make([]string, 0, len(pets))
	for _, p := range pets {
		ids = append(ids, p.Uuid)
	}
	covers, err := s.repos.PetPhoto.FindPrimaryByPetIds(ids)
	if err != nil {
		// 封面缺失不影响列表
		zap.L().Warn("查询宠物封面失败", zap.Error(err))
		covers = map[string]string{}
	}
	list := make([]respond.PetRespond, 0, len(pets))
	for i := range pets {
		list = append(list, respond.NewPetRespond(&pets[i], covers[pets[i].Uuid]))
	}
	return list, total, nil
}

// Get 宠物详情，优先读缓存，每次访问异步累加浏览量
func (s *petService) Get(ctx context.Context, petId string) (*respond.PetDetailRespond, error) {
	key := DetailCacheKey(petId)
	cached, err := s.cache.GetOrError(ctx, key)
	switch {
	case err == nil:
		var detail respond.PetDetailRespond
		if err := json.Unmarshal([]byte(cached), &detail); err == nil {
			s.countView(petId)
			return &detail, nil
		}
		zap.L().Warn("宠物详情缓存损坏", zap.String("key", key))
	case !errorx.IsNotFound(err):
		zap.L().Warn("读取宠物详情缓存失败", zap.String("key", key), zap.Error(err))
	}

	detail, err := s.loadDetail(petId)
	if err != nil {
		return nil, err
	}
	s.fillCache(ctx, key, detail)
	s.countView(petId)
	return detail, nil
}

// fillCache 未命中时同步回填，写入后再核对一次数据库
// 读取与写入之间若有修改或删除提交，失效可能早于回填，此时删掉刚写入的旧值
func (s *petService) fillCache(ctx context.Context, key string, detail *respond.PetDetailRespond) {
	data, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.opts.DetailTTL); err != nil {
		zap.L().Warn("写入宠物详情缓存失败", zap.String("key", key), zap.Error(err))
		return
	}
	current, err := s.repos.Pet.FindByUuid(detail.Id)
	if err == nil && current.Status == detail.Status && current.UpdatedAt.Equal(detail.UpdatedAt) {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		zap.L().Warn("删除宠物详情缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func (s *petService) countView(petId string) {
	s.cache.SubmitTask(func() {
		if err := s.IncrementViewCount(context.Background(), petId); err != nil {
			zap.L().Warn("累加浏览量失败", zap.String("pet_id", petId), zap.Error(err))
		}
	})
}

// IncrementViewCount 浏览量原子 +1
func (s *petService) IncrementViewCount(ctx context.Context, petId string) error {
	return s.repos.Pet.IncrementViewCount(petId)
}

func (s *petService) loadPet(petId string) (*model.Pet, error) {
	pet, err := s.repos.Pet.FindByUuid(petId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errPetNotFound
		}
		zap.L().Error("查询宠物失败", zap.String("pet_id", petId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return pet, nil
}

func (s *petService) loadDetail(petId string) (*respond.PetDetailRespond, error) {
	pet, err := s.loadPet(petId)
	if err != nil {
		return nil, err
	}
	photos, err := s.repos.PetPhoto.FindByPetId(petId)
	if err != nil {
		zap.L().Error("查询宠物照片失败", zap.String("pet_id", petId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	var cover string
	for _, p := range photos {
		if p.IsPrimary {
			cover = p.PhotoUrl
			break
		}
	}
	detail := &respond.PetDetailRespond{
		PetRespond: respond.NewPetRespond(pet, cover),
		Photos:     respond.NewPhotoListRespond(photos),
	}
	if publisher, err := s.repos.User.FindByUuid(pet.PublisherId); err == nil {
		pub := respond.NewPublicUserRespond(publisher)
		detail.Publisher = &pub
	} else if !errorx.IsNotFound(err) {
		zap.L().Warn("查询发布者失败", zap.String("publisher_id", pet.PublisherId), zap.Error(err))
	}
	return detail, nil
}

// authorize 发布者或管理员才能修改宠物
func (s *petService) authorize(petId, actorId string, isAdmin bool) (*model.Pet, error) {
	pet, err := s.loadPet(petId)
	if err != nil {
		return nil, err
	}
	if pet.PublisherId != actorId && !isAdmin {
		return nil, errorx.New(errorx.CodeForbidden, "无权操作该宠物")
	}
	return pet, nil
}

func (s *petService) invalidate(ctx context.Context, petId string) {
	if err := s.cache.Delete(ctx, DetailCacheKey(petId)); err != nil {
		zap.L().Warn("删除宠物详情缓存失败", zap.String("pet_id", petId), zap.Error(err))
	}
}

// Create 发布宠物，photos 可为空；第 primaryIndex 张作为封面
func (s *petService) Create(ctx context.Context, publisherId string, req request.CreatePetRequest, photos []*multipart.FileHeader) (*respond.PetDetailRespond, error) {
	if len(photos) > constants.MAX_PET_PHOTOS {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "最多上传 %d 张照片", constants.MAX_PET_PHOTOS)
	}
	pet := &model.Pet{
		Uuid:         uuid.NewString(),
		PublisherId:  publisherId,
		Name:         strings.TrimSpace(req.Name),
		Breed:        strings.TrimSpace(req.Breed),
		Age:          req.Age,
		Gender:       req.Gender,
		Status:       model.PetStatusAvailable,
		Description:  req.Description,
		Location:     strings.TrimSpace(req.Location),
		IsVaccinated: req.IsVaccinated,
		IsNeutered:   req.IsNeutered,
		IsDewormed:   req.IsDewormed,
	}
	if pet.Gender == "" {
		pet.Gender = model.GenderUnknown
	}

	primary := req.PrimaryIndex
	if primary >= len(photos) {
		primary = 0
	}
	records, err := s.savePhotos(ctx, pet.Uuid, photos, 0, primary)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Pet.Create(pet); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.PetPhoto.CreateBatch(records)
	})
	if err != nil {
		s.removeFiles(ctx, records)
		zap.L().Error("发布宠物失败", zap.String("publisher_id", publisherId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("pet created", zap.String("pet_id", pet.Uuid), zap.Int("photos", len(records)))
	return s.loadDetail(pet.Uuid)
}

// Update 修改宠物信息，adopted 状态只由审批流程写入且之后不可再改状态
// 只写请求中出现的列，并发审批写入的 status 和浏览量不会被覆盖
func (s *petService) Update(ctx context.Context, petId, actorId string, isAdmin bool, req request.UpdatePetRequest) (*respond.PetRespond, error) {
	pet, err := s.authorize(petId, actorId, isAdmin)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && pet.Status == model.PetStatusAdopted {
		return nil, errAdoptedStatus
	}

	ok, err := s.repos.Pet.Update(petId, petColumns(req))
	if err != nil {
		zap.L().Error("更新宠物失败", zap.String("pet_id", petId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	s.invalidate(ctx, petId)

	pet, err = s.loadPet(petId)
	if err != nil {
		return nil, err
	}
	// 读取之后审批抢先提交，状态修改被条件更新拦下
	if !ok && req.Status != nil && pet.Status == model.PetStatusAdopted {
		return nil, errAdoptedStatus
	}
	covers, _ := s.repos.PetPhoto.FindPrimaryByPetIds([]string{petId})
	rsp := respond.NewPetRespond(pet, covers[petId])
	return &rsp, nil
}

// petColumns 把非 nil 字段转为列名到值的映射
func petColumns(req request.UpdatePetRequest) map[string]any {
	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Breed != nil {
		fields["breed"] = strings.TrimSpace(*req.Breed)
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.IsVaccinated != nil {
		fields["is_vaccinated"] = *req.IsVaccinated
	}
	if req.IsNeutered != nil {
		fields["is_neutered"] = *req.IsNeutered
	}
	if req.IsDewormed != nil {
		fields["is_dewormed"] = *req.IsDewormed
	}
	return fields
}

// Delete 删除宠物及其照片记录，存储中的文件尽量删除
func (s *petService) Delete(ctx context.Context, petId, actorId string, isAdmin bool) error {
	if _, err := s.authorize(petId, actorId, isAdmin); err != nil {
		return err
	}
	photos, err := s.repos.PetPhoto.FindByPetId(petId)
	if err != nil {
		zap.L().Error("查询宠物照片失败", zap.String("pet_id", petId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.PetPhoto.DeleteByPetId(petId); err != nil {
			return err
		}
		return tx.Pet.Delete(petId)
	})
	if err != nil {
		zap.L().Error("删除宠物失败", zap.String("pet_id", petId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.removeFiles(ctx, photos)
	s.invalidate(ctx, petId)
	zap.L().Info("pet deleted", zap.String("pet_id", petId), zap.String("actor", actorId))
	return nil
}
