// Package application 领养申请的提交、查询与审批
//
// 状态机：pending -> approved | rejected，两个终态都不可再变更。
// 审批在单个事务内完成，依赖条件更新（WHERE status = 'pending'）保证并发下只有一个审批生效。
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet_adoption_server/internal/dao/mysql/repository"
	myredis "pet_adoption_server/internal/dao/redis"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/infrastructure/metrics"
	"pet_adoption_server/internal/infrastructure/mq"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

var (
	errPetNotFound         = errorx.New(errorx.CodeNotFound, "宠物不存在")
	errApplicationNotFound = errorx.New(errorx.CodeNotFound, "申请不存在")
	errPetUnavailable      = errorx.New(errorx.CodeConflict, "该宠物当前不可申请")
	errOwnPet              = errorx.New(errorx.CodeInvalidParam, "不能申请自己发布的宠物")
	errDuplicate           = errorx.New(errorx.CodeInvalidParam, "您已申请过该宠物，请勿重复申请")
	errNotPublisher        = errorx.New(errorx.CodeForbidden, "只有发布者可以处理该申请")
	errNoAccess            = errorx.New(errorx.CodeForbidden, "无权查看该申请")
	errAlreadyProcessed    = errorx.New(errorx.CodeConflict, "申请已处理")
	errPetAlreadyAdopted   = errorx.New(errorx.CodeConflict, "该宠物已被领养")
)

type applicationService struct {
	repos     *repository.Repositories
	cache     myredis.CacheService
	publisher mq.Publisher
}

// NewApplicationService 构造函数，publisher 为 nil 时不发布事件
func NewApplicationService(repos *repository.Repositories, cache myredis.CacheService, publisher mq.Publisher) *applicationService {
	return &applicationService{repos: repos, cache: cache, publisher: publisher}
}

func (s *applicationService) loadPet(petId string) (*model.Pet, error) {
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

func (s *applicationService) loadApplication(appId string) (*model.Application, error) {
	app, err := s.repos.Application.FindByUuid(appId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errApplicationNotFound
		}
		zap.L().Error("查询申请失败", zap.String("application_id", appId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return app, nil
}

// Create 提交申请
func (s *applicationService) Create(ctx context.Context, applicantId string, req request.CreateApplicationRequest) (*respond.ApplicationRespond, error) {
	pet, err := s.loadPet(req.PetId)
	if err != nil {
		return nil, err
	}
	if pet.Status != model.PetStatusAvailable {
		return nil, errPetUnavailable
	}
	if pet.PublisherId == applicantId {
		return nil, errOwnPet
	}

	_, err = s.repos.Application.FindByPetAndApplicant(pet.Uuid, applicantId)
	if err == nil {
		return nil, errDuplicate
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("查询重复申请失败", zap.String("pet_id", pet.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	app := &model.Application{
		Uuid:        uuid.NewString(),
		PetId:       pet.Uuid,
		ApplicantId: applicantId,
		PublisherId: pet.PublisherId,
		Status:      model.ApplicationPending,
		Message:     strings.TrimSpace(req.Message),
	}
	if err := s.repos.Application.Create(app); err != nil {
		// 并发的重复申请由唯一索引拦下
		if errorx.HasCode(err, errorx.CodeConflict) {
			return nil, errDuplicate
		}
		zap.L().Error("创建申请失败", zap.String("pet_id", pet.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	metrics.RecordApplication("created", 1)
	s.publish(ctx, mq.EventApplicationCreated, app, pet)
	zap.L().Info("application created",
		zap.String("application_id", app.Uuid),
		zap.String("pet_id", pet.Uuid),
		zap.String("applicant_id", applicantId))

	rsp := respond.NewApplicationRespond(app)
	return &rsp, nil
}

// checkDecidable 审批前置校验：申请存在、操作者是发布者、仍为 pending
func (s *applicationService) checkDecidable(appId, actorId string) (*model.Application, error) {
	app, err := s.loadApplication(appId)
	if err != nil {
		return nil, err
	}
	if app.PublisherId != actorId {
		return nil, errNotPublisher
	}
	if !app.IsPending() {
		metrics.RecordApplication("conflict", 1)
		return nil, errAlreadyProcessed
	}
	return app, nil
}

// Approve 通过申请：申请置 approved、宠物置 adopted、其余 pending 申请置 rejected，三步同一事务
func (s *applicationService) Approve(ctx context.Context, appId, actorId string) (*respond.ApplicationRespond, error) {
	app, err := s.checkDecidable(appId, actorId)
	if err != nil {
		return nil, err
	}
	pet, err := s.loadPet(app.PetId)
	if err != nil {
		return nil, err
	}

	var siblings []model.Application
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		ok, err := tx.Application.UpdateStatusIfPending(app.Uuid, model.ApplicationApproved)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyProcessed
		}

		adopted, err := tx.Pet.MarkAdopted(app.PetId)
		if err != nil {
			return err
		}
		if !adopted {
			return errPetAlreadyAdopted
		}

		pending, err := tx.Application.FindPendingByPetId(app.PetId)
		if err != nil {
			return err
		}
		siblings = siblings[:0]
		for _, p := range pending {
			if p.Uuid != app.Uuid {
				siblings = append(siblings, p)
			}
		}
		_, err = tx.Application.RejectPendingExcept(app.PetId, app.Uuid)
		return err
	})
	if err != nil {
		return nil, s.decisionError(err, appId)
	}

	s.invalidatePet(ctx, app.PetId)
	app.Status = model.ApplicationApproved
	metrics.RecordApplication("approved", 1)
	metrics.RecordApplication("auto_rejected", len(siblings))
	s.publish(ctx, mq.EventApplicationApproved, app, pet)
	for i := range siblings {
		siblings[i].Status = model.ApplicationRejected
		s.publish(ctx, mq.EventApplicationRejected, &siblings[i], pet)
	}
	zap.L().Info("application approved",
		zap.String("application_id", app.Uuid),
		zap.String("pet_id", app.PetId),
		zap.Int("auto_rejected", len(siblings)))

	return s.reload(app.Uuid)
}

// Reject 拒绝申请，不影响宠物和其他申请
func (s *applicationService) Reject(ctx context.Context, appId, actorId string) (*respond.ApplicationRespond, error) {
	app, err := s.checkDecidable(appId, actorId)
	if err != nil {
		return nil, err
	}
	ok, err := s.repos.Application.UpdateStatusIfPending(app.Uuid, model.ApplicationRejected)
	if err != nil {
		return nil, s.decisionError(err, appId)
	}
	if !ok {
		return nil, s.decisionError(errAlreadyProcessed, appId)
	}

	app.Status = model.ApplicationRejected
	metrics.RecordApplication("rejected", 1)
	if pet, err := s.repos.Pet.FindByUuid(app.PetId); err == nil {
		s.publish(ctx, mq.EventApplicationRejected, app, pet)
	} else {
		s.publish(ctx, mq.EventApplicationRejected, app, &model.Pet{Uuid: app.PetId})
	}
	zap.L().Info("application rejected", zap.String("application_id", app.Uuid))

	return s.reload(app.Uuid)
}

// decisionError 业务错误原样返回，其余记录日志后转为服务繁忙
func (s *applicationService) decisionError(err error, appId string) error {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) && codeErr.Code == errorx.CodeConflict {
		metrics.RecordApplication("conflict", 1)
		return codeErr
	}
	zap.L().Error("审批申请失败", zap.String("application_id", appId), zap.Error(err))
	return errorx.ErrServerBusy
}

func (s *applicationService) reload(appId string) (*respond.ApplicationRespond, error) {
	app, err := s.loadApplication(appId)
	if err != nil {
		return nil, err
	}
	rsp := respond.NewApplicationRespond(app)
	return &rsp, nil
}

func (s *applicationService) invalidatePet(ctx context.Context, petId string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.PET_DETAIL_KEY_PREFIX+petId); err != nil {
		zap.L().Warn("删除宠物详情缓存失败", zap.String("pet_id", petId), zap.Error(err))
	}
}

// publish 事件发布失败只记录日志，业务数据已经提交
func (s *applicationService) publish(ctx context.Context, eventType string, app *model.Application, pet *model.Pet) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	ev := mq.Event{
		Type:          eventType,
		ApplicationId: app.Uuid,
		PetId:         app.PetId,
		PetName:       pet.Name,
		ApplicantId:   app.ApplicantId,
		PublisherId:   app.PublisherId,
		OccurredAt:    time.Now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		zap.L().Error("发布申请事件失败",
			zap.String("type", eventType),
			zap.String("application_id", app.Uuid),
			zap.Error(err))
	}
}
