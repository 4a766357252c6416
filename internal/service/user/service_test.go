package user

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"pet_adoption_server/internal/dao/memory"
	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/infrastructure/storage"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/pkg/constants"
	"pet_adoption_server/pkg/errorx"
	"pet_adoption_server/pkg/util/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newService(t *testing.T) *userService {
	t.Helper()
	jwt.Init("user-service-test", time.Hour)
	repos := memory.NewRepositories(memory.NewStore())
	st := storage.NewLocalStorage(t.TempDir(), "")
	return NewUserService(repos, memory.NewCache(), st, Options{MaxUploadBytes: 1 << 20})
}

func register(t *testing.T, s *userService, email string) string {
	t.Helper()
	rsp, err := s.Register(ctx, request.RegisterRequest{Email: email, Password: "secret123", Name: "小明"})
	require.NoError(t, err)
	return rsp.User.Id
}

func TestRegisterAndLogin(t *testing.T) {
	s := newService(t)
	rsp, err := s.Register(ctx, request.RegisterRequest{Email: " Alice@Example.com ", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", rsp.User.Email)
	assert.Equal(t, model.RoleUser, rsp.User.Role)

	payload := jwt.VerifyToken(rsp.Token)
	require.NotNil(t, payload)
	assert.Equal(t, rsp.User.Id, payload.UserID)

	login, err := s.Login(ctx, request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, rsp.User.Id, login.User.Id)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newService(t)
	register(t, s, "dup@example.com")

	_, err := s.Register(ctx, request.RegisterRequest{Email: "DUP@example.com", Password: "another1", Name: "B"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestLoginFailuresShareMessage(t *testing.T) {
	s := newService(t)
	register(t, s, "bob@example.com")

	_, wrongPwd := s.Login(ctx, request.LoginRequest{Email: "bob@example.com", Password: "nope"})
	_, unknown := s.Login(ctx, request.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(wrongPwd))
	assert.Equal(t, wrongPwd.Error(), unknown.Error())
}

func TestUpdateProfileOnlyTouchesGivenFields(t *testing.T) {
	s := newService(t)
	id := register(t, s, "carol@example.com")

	wechat := "carol_wx"
	rsp, err := s.UpdateProfile(ctx, id, request.UpdateProfileRequest{Wechat: &wechat})
	require.NoError(t, err)
	assert.Equal(t, "小明", rsp.Name)
	assert.Equal(t, "carol_wx", rsp.Wechat)

	// 资料更新不能改动密码
	_, err = s.Login(ctx, request.LoginRequest{Email: "carol@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func avatarFile(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, _ = part.Write(content)
	require.NoError(t, w.Close())
	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestUploadAvatar(t *testing.T) {
	s := newService(t)
	id := register(t, s, "dave@example.com")

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	rsp, err := s.UploadAvatar(ctx, id, avatarFile(t, png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rsp.AvatarUrl, "/static/avatars/"))

	_, err = s.UploadAvatar(ctx, id, avatarFile(t, []byte("plain text")))
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestPublisherProfileChangeDropsPetDetails(t *testing.T) {
	s := newService(t)
	publisher := register(t, s, "grace@example.com")
	bystander := register(t, s, "heidi@example.com")
	require.NoError(t, s.repos.Pet.Create(&model.Pet{Uuid: "pet-1", PublisherId: publisher, Name: "豆豆"}))

	key := constants.PET_DETAIL_KEY_PREFIX + "pet-1"
	require.NoError(t, s.cache.Set(ctx, key, `{"publisher":{"name":"小明"}}`, time.Minute))

	// 没有发布过宠物的用户改名不影响详情缓存
	name := "路人"
	_, err := s.UpdateProfile(ctx, bystander, request.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	_, err = s.cache.GetOrError(ctx, key)
	require.NoError(t, err)

	name = "小明二号"
	_, err = s.UpdateProfile(ctx, publisher, request.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	_, err = s.cache.GetOrError(ctx, key)
	assert.True(t, errorx.IsNotFound(err))

	require.NoError(t, s.cache.Set(ctx, key, "{}", time.Minute))
	_, err = s.UploadAvatar(ctx, publisher, avatarFile(t, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")))
	require.NoError(t, err)
	_, err = s.cache.GetOrError(ctx, key)
	assert.True(t, errorx.IsNotFound(err))
}

func TestPublicProfileAndAdmin(t *testing.T) {
	s := newService(t)
	id := register(t, s, "erin@example.com")
	register(t, s, "frank@example.com")

	pub, err := s.GetPublicProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, pub.Id)

	_, err = s.GetPublicProfile(ctx, "missing")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	list, meta, err := s.ListUsers(ctx, request.UserListQuery{Keyword: "erin"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, meta.Total)
	assert.Equal(t, 12, meta.Limit)

	require.NoError(t, s.SetRole(ctx, id, model.RoleAdmin))
	me, err := s.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, me.Role)

	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(s.SetRole(ctx, "missing", model.RoleAdmin)))
}
