package application

import (
	"context"

	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"

	"go.uber.org/zap"
)

// Get 申请详情，只有申请人和发布者可见
func (s *applicationService) Get(ctx context.Context, appId, viewerId string) (*respond.ApplicationRespond, error) {
	app, err := s.loadApplication(appId)
	if err != nil {
		return nil, err
	}
	if viewerId != app.ApplicantId && viewerId != app.PublisherId {
		return nil, errNoAccess
	}
	list, err := s.enrich([]model.Application{*app})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List type=sent 查我发出的申请，type=received 查我收到的申请，按时间倒序
func (s *applicationService) List(ctx context.Context, userId string, q request.ApplicationListQuery) ([]respond.ApplicationRespond, *respond.PageMeta, error) {
	page, limit, offset := q.Normalize()
	filter := repository.ApplicationFilter{
		PetId:  q.PetId,
		Status: q.Status,
		Offset: offset,
		Limit:  limit,
	}
	if q.Type == "received" {
		filter.PublisherId = userId
	} else {
		filter.ApplicantId = userId
	}

	apps, total, err := s.repos.Application.List(filter)
	if err != nil {
		zap.L().Error("查询申请列表失败", zap.String("user_id", userId), zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	list, err := s.enrich(apps)
	if err != nil {
		return nil, nil, err
	}
	return list, &respond.PageMeta{Total: total, Page: page, Limit: limit}, nil
}

// enrich 填充宠物摘要与双方公开信息，关联数据缺失时对应字段留空
func (s *applicationService) enrich(apps []model.Application) ([]respond.ApplicationRespond, error) {
	petIds := make([]string, 0, len(apps))
	userIds := make([]string, 0, len(apps)*2)
	pets := make(map[string]*respond.PetSummary, len(apps))
	for _, a := range apps {
		if _, ok := pets[a.PetId]; !ok {
			pets[a.PetId] = nil
			petIds = append(petIds, a.PetId)
		}
		userIds = append(userIds, a.ApplicantId, a.PublisherId)
	}

	covers, err := s.repos.PetPhoto.FindPrimaryByPetIds(petIds)
	if err != nil {
		zap.L().Warn("查询宠物封面失败", zap.Error(err))
		covers = map[string]string{}
	}
	for _, id := range petIds {
		pet, err := s.repos.Pet.FindByUuid(id)
		if err != nil {
			if errorx.IsNotFound(err) {
				continue
			}
			zap.L().Error("查询宠物失败", zap.String("pet_id", id), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		pets[id] = &respond.PetSummary{
			Id:           pet.Uuid,
			Name:         pet.Name,
			Breed:        pet.Breed,
			Status:       pet.Status,
			PrimaryPhoto: covers[id],
		}
	}

	users, err := s.repos.User.FindByUuids(userIds)
	if err != nil {
		zap.L().Error("批量查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	profiles := make(map[string]*respond.PublicUserRespond, len(users))
	for i := range users {
		p := respond.NewPublicUserRespond(&users[i])
		profiles[users[i].Uuid] = &p
	}

	list := make([]respond.ApplicationRespond, 0, len(apps))
	for i := range apps {
		rsp := respond.NewApplicationRespond(&apps[i])
		rsp.Pet = pets[apps[i].PetId]
		rsp.Applicant = profiles[apps[i].ApplicantId]
		rsp.Publisher = profiles[apps[i].PublisherId]
		list = append(list, rsp)
	}
	return list, nil
}
