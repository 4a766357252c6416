package memory

import (
	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"
)

type applicationRepository struct {
	s *Store
	tx bool
}

func (r *applicationRepository) FindByUuid(uuid string) (*model.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	app, ok := r.s.apps[uuid]
	if !ok {
		return nil, notFound("申请", uuid)
	}
	return &app, nil
}

func (r *applicationRepository) FindByPetAndApplicant(petId, applicantId string) (*model.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, app := range r.s.apps {
		if app.PetId == petId && app.ApplicantId == applicantId {
			a := app
			return &a, nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "申请 pet_id=%s applicant_id=%s 不存在", petId, applicantId)
}

func (r *applicationRepository) FindPendingByPetId(petId string) ([]model.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var apps []model.Application
	for _, app := range r.s.apps {
		if app.PetId == petId && app.IsPending() {
			apps = append(apps, app)
		}
	}
	sortByID(apps, func(a model.Application) uint { return a.ID }, false)
	return apps, nil
}

func (r *applicationRepository) List(f repository.ApplicationFilter) ([]model.Application, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var apps []model.Application
	for _, app := range r.s.apps {
		if f.ApplicantId != "" && app.ApplicantId != f.ApplicantId {
			continue
		}
		if f.PublisherId != "" && app.PublisherId != f.PublisherId {
			continue
		}
		if f.PetId != "" && app.PetId != f.PetId {
			continue
		}
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		apps = append(apps, app)
	}
	sortByID(apps, func(a model.Application) uint { return a.ID }, true)
	return page(apps, f.Offset, f.Limit), int64(len(apps)), nil
}

func (r *applicationRepository) Create(app *model.Application) error {
	defer r.s.lockWrite(r.tx)()
	for _, existing := range r.s.apps {
		if existing.PetId == app.PetId && existing.ApplicantId == app.ApplicantId {
			return errorx.Newf(errorx.CodeConflict, "创建申请: pet_id=%s applicant_id=%s 已存在", app.PetId, app.ApplicantId)
		}
	}
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}
	r.s.stamp(&app.Model)
	r.s.apps[app.Uuid] = *app
	return nil
}

func (r *applicationRepository) UpdateStatusIfPending(uuid, status string) (bool, error) {
	defer r.s.lockWrite(r.tx)()
	app, ok := r.s.apps[uuid]
	if !ok || !app.IsPending() {
		return false, nil
	}
	app.Status = status
	r.s.apps[uuid] = app
	return true, nil
}

func (r *applicationRepository) RejectPendingExcept(petId, exceptUuid string) (int64, error) {
	defer r.s.lockWrite(r.tx)()
	var n int64
	for id, app := range r.s.apps {
		if app.PetId != petId || id == exceptUuid || !app.IsPending() {
			continue
		}
		app.Status = model.ApplicationRejected
		r.s.apps[id] = app
		n++
	}
	return n, nil
}
