package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet_adoption_server/internal/dao/mysql/repository"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollback(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "pet-1", Name: "旺财"}))

	boom := errors.New("boom")
	err := repos.Transaction(func(tx *repository.Repositories) error {
		ok, err := tx.Pet.MarkAdopted("pet-1")
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.Application.Create(&model.Application{Uuid: "app-1", PetId: "pet-1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	pet, err := repos.Pet.FindByUuid("pet-1")
	require.NoError(t, err)
	assert.Equal(t, model.PetStatusAvailable, pet.Status)
	_, err = repos.Application.FindByUuid("app-1")
	assert.True(t, errorx.IsNotFound(err))
}

func TestTransactionCommit(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "pet-1"}))

	require.NoError(t, repos.Transaction(func(tx *repository.Repositories) error {
		_, err := tx.Pet.MarkAdopted("pet-1")
		return err
	}))

	pet, _ := repos.Pet.FindByUuid("pet-1")
	assert.Equal(t, model.PetStatusAdopted, pet.Status)

	ok, err := repos.Pet.MarkAdopted("pet-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRollbackKeepsWritesOutsideTransaction(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "pet-1"}))

	started, done := make(chan struct{}), make(chan error, 1)
	boom := errors.New("boom")
	err := repos.Transaction(func(tx *repository.Repositories) error {
		_, err := tx.Pet.MarkAdopted("pet-1")
		require.NoError(t, err)
		go func() {
			close(started)
			done <- repos.Message.Create(&model.Message{Uuid: "m-outside", SenderId: "a", ReceiverId: "b"})
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		select {
		case <-done:
			t.Error("事务外的写入应等待事务结束")
		default:
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, <-done)

	_, err = repos.Message.FindByUuid("m-outside")
	assert.NoError(t, err)
	pet, _ := repos.Pet.FindByUuid("pet-1")
	assert.Equal(t, model.PetStatusAvailable, pet.Status)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	repos := NewRepositories(NewStore())
	boom := errors.New("boom")
	err := repos.Transaction(func(tx *repository.Repositories) error {
		require.NoError(t, tx.Transaction(func(inner *repository.Repositories) error {
			return inner.Pet.Create(&model.Pet{Uuid: "pet-1"})
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, err = repos.Pet.FindByUuid("pet-1")
	assert.True(t, errorx.IsNotFound(err))
}

func TestApplicationUniquePerApplicant(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Application.Create(&model.Application{Uuid: "a1", PetId: "pet-1", ApplicantId: "alice"}))

	err := repos.Application.Create(&model.Application{Uuid: "a2", PetId: "pet-1", ApplicantId: "alice"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	require.NoError(t, repos.Application.Create(&model.Application{Uuid: "a3", PetId: "pet-2", ApplicantId: "alice"}))

	_, total, _ := repos.Application.List(repository.ApplicationFilter{ApplicantId: "alice"})
	assert.EqualValues(t, 2, total)
}

func TestPetUpdateWritesOnlyGivenColumns(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "pet-1", Name: "旺财", Breed: "柴犬"}))
	require.NoError(t, repos.Pet.IncrementViewCount("pet-1"))

	ok, err := repos.Pet.Update("pet-1", map[string]any{"description": "亲人", "is_dewormed": true})
	require.NoError(t, err)
	assert.True(t, ok)
	pet, _ := repos.Pet.FindByUuid("pet-1")
	assert.Equal(t, "亲人", pet.Description)
	assert.True(t, pet.IsDewormed)
	assert.Equal(t, "柴犬", pet.Breed)
	assert.EqualValues(t, 1, pet.ViewCount)

	_, err = repos.Pet.MarkAdopted("pet-1")
	require.NoError(t, err)
	ok, err = repos.Pet.Update("pet-1", map[string]any{"status": model.PetStatusAvailable})
	require.NoError(t, err)
	assert.False(t, ok, "已领养的宠物不能改状态")
	pet, _ = repos.Pet.FindByUuid("pet-1")
	assert.Equal(t, model.PetStatusAdopted, pet.Status)

	ok, _ = repos.Pet.Update("missing", map[string]any{"name": "x"})
	assert.False(t, ok)
	_, err = repos.Pet.Update("pet-1", map[string]any{"age": "old"})
	assert.Error(t, err)
}

func TestConditionalApplicationUpdates(t *testing.T) {
	repos := NewRepositories(NewStore())
	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, repos.Application.Create(&model.Application{Uuid: id, PetId: "pet-1", ApplicantId: "u-" + id}))
	}
	ok, err := repos.Application.UpdateStatusIfPending("a3", model.ApplicationRejected)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = repos.Application.UpdateStatusIfPending("a1", model.ApplicationApproved)
	assert.True(t, ok)
	ok, _ = repos.Application.UpdateStatusIfPending("a1", model.ApplicationApproved)
	assert.False(t, ok)

	n, err := repos.Application.RejectPendingExcept("pet-1", "a1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	pending, _ := repos.Application.FindPendingByPetId("pet-1")
	assert.Empty(t, pending)
}

func TestPetListFilterAndSort(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "p1", Name: "Lucky", Breed: "柯基", Age: 6, Location: "上海浦东"}))
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "p2", Name: "Momo", Breed: "橘猫", Age: 40, Location: "北京"}))
	require.NoError(t, repos.Pet.Create(&model.Pet{Uuid: "p3", Name: "Dudu", Breed: "柯基", Age: 20, Location: "上海", Status: model.PetStatusAdopted}))

	pets, total, err := repos.Pet.List(repository.PetFilter{Breed: "柯基", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "p3", pets[0].Uuid)

	lo, hi := 12, 36
	pets, _, _ = repos.Pet.List(repository.PetFilter{MinAge: &lo, MaxAge: &hi})
	require.Len(t, pets, 1)
	assert.Equal(t, "p3", pets[0].Uuid)

	pets, _, _ = repos.Pet.List(repository.PetFilter{Location: "上海", Status: model.PetStatusAvailable})
	require.Len(t, pets, 1)
	assert.Equal(t, "p1", pets[0].Uuid)

	pets, _, _ = repos.Pet.List(repository.PetFilter{Keyword: "momo", Sort: repository.SortAge})
	require.Len(t, pets, 1)

	pets, total, _ = repos.Pet.List(repository.PetFilter{Sort: repository.SortOldest, Offset: 1, Limit: 1})
	assert.EqualValues(t, 3, total)
	require.Len(t, pets, 1)
	assert.Equal(t, "p2", pets[0].Uuid)
}

func TestUserPasswordHashedOnCreate(t *testing.T) {
	repos := NewRepositories(NewStore())
	user := &model.UserInfo{Uuid: "u1", Email: "a@b.com", RawPassword: "secret123"}
	require.NoError(t, repos.User.Create(user))

	stored, err := repos.User.FindByEmail("A@B.com")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("secret123"))
	assert.Equal(t, model.RoleUser, stored.Role)

	err = repos.User.Create(&model.UserInfo{Uuid: "u2", Email: "a@b.com"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestMessagesUnread(t *testing.T) {
	repos := NewRepositories(NewStore())
	require.NoError(t, repos.Message.Create(&model.Message{Uuid: "m1", SenderId: "a", ReceiverId: "b", Content: "hi"}))
	require.NoError(t, repos.Message.Create(&model.Message{Uuid: "m2", SenderId: "b", ReceiverId: "a", Content: "hello"}))
	require.NoError(t, repos.Message.Create(&model.Message{Uuid: "m3", SenderId: "c", ReceiverId: "b", Content: "?"}))

	msgs, total, _ := repos.Message.FindConversation("b", "a", 0, 10)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "m1", msgs[0].Uuid)

	bySender, _ := repos.Message.CountUnreadBySender("b")
	assert.Equal(t, map[string]int64{"a": 1, "c": 1}, bySender)

	require.NoError(t, repos.Message.MarkConversationRead("b", "a"))
	n, _ := repos.Message.CountUnread("b")
	assert.EqualValues(t, 1, n)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "pet_detail_1", "v", time.Minute))
	v, _ := c.Get(ctx, "pet_detail_1")
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, err := c.GetOrError(ctx, "pet_detail_1")
	assert.True(t, errorx.IsNotFound(err))

	n, _ := c.IncrWithExpire(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)
	n, _ = c.IncrWithExpire(ctx, "k", time.Minute)
	assert.EqualValues(t, 2, n)

	_ = c.Set(ctx, "pet_detail_2", "x", 0)
	require.NoError(t, c.DeleteByPattern(ctx, "pet_detail_*"))
	v, _ = c.Get(ctx, "pet_detail_2")
	assert.Empty(t, v)
}
