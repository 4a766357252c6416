package application

import (
	"context"
	"sync"
	"testing"

	"pet_adoption_server/internal/dao/memory"
	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/infrastructure/mq"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev mq.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	svc   *applicationService
	repos *repository.Repositories
	cache *memory.Cache
	pub   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	for _, id := range []string{"publisher", "alice", "bob", "carol"} {
		require.NoError(t, repos.User.Create(&model.UserInfo{Uuid: id, Email: id + "@example.com", Name: id}))
	}
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "pet-1", PublisherId: "publisher", Name: "旺财"}))
	cache := memory.NewCache()
	pub := &recordingPublisher{}
	return &fixture{svc: NewApplicationService(repos, cache, pub), repos: repos, cache: cache, pub: pub}
}

func (f *fixture) apply(t *testing.T, applicant string) string {
	t.Helper()
	rsp, err := f.svc.Create(ctx, applicant, request.CreateApplicationRequest{PetId: "pet-1", Message: "我家有院子"})
	require.NoError(t, err)
	return rsp.Id
}

func (f *fixture) status(t *testing.T, appId string) string {
	t.Helper()
	app, err := f.repos.Application.FindByUuid(appId)
	require.NoError(t, err)
	return app.Status
}

func (f *fixture) petStatus(t *testing.T) string {
	t.Helper()
	pet, err := f.repos.Pet.FindByUuid("pet-1")
	require.NoError(t, err)
	return pet.Status
}

func TestCreateApplication(t *testing.T) {
	f := newFixture(t)
	rsp, err := f.svc.Create(ctx, "alice", request.CreateApplicationRequest{PetId: "pet-1", Message: "  想领养  "})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, rsp.Status)
	assert.Equal(t, "publisher", rsp.PublisherId)
	assert.Equal(t, "想领养", rsp.Message)
	assert.Equal(t, []string{mq.EventApplicationCreated}, f.pub.types())
}

func TestCreateApplicationGuards(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(ctx, "alice", request.CreateApplicationRequest{PetId: "missing"})
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	_, err = f.svc.Create(ctx, "publisher", request.CreateApplicationRequest{PetId: "pet-1"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = f.repos.Pet.Update("pet-1", map[string]any{"status": model.PetStatusPending})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "alice", request.CreateApplicationRequest{PetId: "pet-1"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestDuplicateApplicationKeepsFirstPending(t *testing.T) {
	f := newFixture(t)
	first := f.apply(t, "alice")

	_, err := f.svc.Create(ctx, "alice", request.CreateApplicationRequest{PetId: "pet-1"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	assert.Equal(t, "您已申请过该宠物，请勿重复申请", err.Error())

	assert.Equal(t, model.ApplicationPending, f.status(t, first))
	_, total, _ := f.repos.Application.List(repository.ApplicationFilter{PetId: "pet-1"})
	assert.EqualValues(t, 1, total)
}

func TestApproveEffects(t *testing.T) {
	f := newFixture(t)
	winner := f.apply(t, "alice")
	loser := f.apply(t, "bob")
	decided := f.apply(t, "carol")
	_, err := f.svc.Reject(ctx, decided, "publisher")
	require.NoError(t, err)
	before, _ := f.repos.Application.FindByUuid(decided)

	require.NoError(t, f.cache.Set(ctx, constants.PET_DETAIL_KEY_PREFIX+"pet-1", "{}", 0))

	rsp, err := f.svc.Approve(ctx, winner, "publisher")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, rsp.Status)

	assert.Equal(t, model.PetStatusAdopted, f.petStatus(t))
	assert.Equal(t, model.ApplicationRejected, f.status(t, loser))
	after, _ := f.repos.Application.FindByUuid(decided)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "已处理的申请不被改动")

	cached, _ := f.cache.Get(ctx, constants.PET_DETAIL_KEY_PREFIX+"pet-1")
	assert.Empty(t, cached)

	assert.Equal(t, []string{
		mq.EventApplicationCreated,
		mq.EventApplicationCreated,
		mq.EventApplicationCreated,
		mq.EventApplicationRejected,
		mq.EventApplicationApproved,
		mq.EventApplicationRejected,
	}, f.pub.types())
	last := f.pub.events[len(f.pub.events)-1]
	assert.Equal(t, loser, last.ApplicationId)
	assert.Equal(t, "bob", last.ApplicantId)
	assert.Equal(t, "旺财", last.PetName)
}

func TestApproveRequiresPublisher(t *testing.T) {
	f := newFixture(t)
	appId := f.apply(t, "alice")

	_, err := f.svc.Approve(ctx, appId, "alice")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	_, err = f.svc.Approve(ctx, "missing", "publisher")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	assert.Equal(t, model.ApplicationPending, f.status(t, appId))
}

func TestApproveNonPendingIsConflict(t *testing.T) {
	f := newFixture(t)
	rejected := f.apply(t, "alice")
	other := f.apply(t, "bob")
	_, err := f.svc.Reject(ctx, rejected, "publisher")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, rejected, "publisher")
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	assert.Equal(t, model.ApplicationRejected, f.status(t, rejected))
	assert.Equal(t, model.ApplicationPending, f.status(t, other))
	assert.Equal(t, model.PetStatusAvailable, f.petStatus(t))
}

func TestApproveRetryIsSafe(t *testing.T) {
	f := newFixture(t)
	appId := f.apply(t, "alice")
	_, err := f.svc.Approve(ctx, appId, "publisher")
	require.NoError(t, err)
	published := len(f.pub.types())

	_, err = f.svc.Approve(ctx, appId, "publisher")
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	_, err = f.svc.Reject(ctx, appId, "publisher")
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	assert.Equal(t, model.ApplicationApproved, f.status(t, appId))
	assert.Equal(t, model.PetStatusAdopted, f.petStatus(t))
	assert.Len(t, f.pub.types(), published, "重试不再发布事件")
}

func TestApproveRollsBackWhenPetAlreadyAdopted(t *testing.T) {
	f := newFixture(t)
	appId := f.apply(t, "alice")
	sibling := f.apply(t, "bob")
	ok, err := f.repos.Pet.MarkAdopted("pet-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.Approve(ctx, appId, "publisher")
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	assert.Equal(t, model.ApplicationPending, f.status(t, appId), "事务回滚")
	assert.Equal(t, model.ApplicationPending, f.status(t, sibling))
}

func TestConcurrentApprovalsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	apps := []string{f.apply(t, "alice"), f.apply(t, "bob"), f.apply(t, "carol")}

	var wg sync.WaitGroup
	results := make([]error, len(apps))
	for i, id := range apps {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, results[i] = f.svc.Approve(ctx, id, "publisher")
		}(i, id)
	}
	wg.Wait()

	wins := 0
	for i, err := range results {
		if err == nil {
			wins++
			assert.Equal(t, model.ApplicationApproved, f.status(t, apps[i]))
			continue
		}
		assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
		assert.Equal(t, model.ApplicationRejected, f.status(t, apps[i]))
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, model.PetStatusAdopted, f.petStatus(t))
}

func TestRejectOnlyTouchesThatApplication(t *testing.T) {
	f := newFixture(t)
	target := f.apply(t, "alice")
	other := f.apply(t, "bob")

	_, err := f.svc.Reject(ctx, target, "bob")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	rsp, err := f.svc.Reject(ctx, target, "publisher")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationRejected, rsp.Status)
	assert.Equal(t, model.ApplicationPending, f.status(t, other))
	assert.Equal(t, model.PetStatusAvailable, f.petStatus(t))
}

func TestGetVisibility(t *testing.T) {
	f := newFixture(t)
	appId := f.apply(t, "alice")

	rsp, err := f.svc.Get(ctx, appId, "alice")
	require.NoError(t, err)
	require.NotNil(t, rsp.Pet)
	assert.Equal(t, "旺财", rsp.Pet.Name)
	require.NotNil(t, rsp.Applicant)
	assert.Equal(t, "alice", rsp.Applicant.Name)
	require.NotNil(t, rsp.Publisher)

	_, err = f.svc.Get(ctx, appId, "publisher")
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, appId, "bob")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestListSentAndReceived(t *testing.T) {
	f := newFixture(t)
	first := f.apply(t, "alice")
	second := f.apply(t, "bob")
	_, err := f.svc.Reject(ctx, first, "publisher")
	require.NoError(t, err)

	sent, meta, err := f.svc.List(ctx, "alice", request.ApplicationListQuery{})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.EqualValues(t, 1, meta.Total)

	received, meta, err := f.svc.List(ctx, "publisher", request.ApplicationListQuery{Type: "received"})
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, second, received[0].Id, "最新的在前")
	assert.EqualValues(t, 2, meta.Total)

	pending, _, err := f.svc.List(ctx, "publisher", request.ApplicationListQuery{Type: "received", Status: model.ApplicationPending, PetId: "pet-1"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].Id)
}
