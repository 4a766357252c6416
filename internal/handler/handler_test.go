package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet_adoption_server/internal/dto/request"
	"pet_adoption_server/internal/dto/respond"
	"pet_adoption_server/internal/infrastructure/middleware"
	"pet_adoption_server/internal/model"
	"pet_adoption_server/internal/service"
	"pet_adoption_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := InitTrans("zh"); err != nil {
		panic(err)
	}
}

// asUser 模拟 JWTAuth 写入的登录信息
func asUser(userId, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userId)
		c.Set(middleware.CtxRole, role)
		c.Next()
	}
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHandleError(t *testing.T) {
	engine := gin.New()
	engine.GET("/code", func(c *gin.Context) { HandleError(c, errorx.New(errorx.CodeConflict, "申请已处理")) })
	engine.GET("/wrapped", func(c *gin.Context) {
		HandleError(c, errorx.Wrap(errors.New("dup"), errorx.CodeNotFound, "宠物不存在"))
	})
	engine.GET("/raw", func(c *gin.Context) { HandleError(c, errors.New("disk full")) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/code", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":409,"msg":"申请已处理"}`, w.Body.String())

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/wrapped", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"msg":"服务繁忙"}`, w.Body.String())
}

func TestHandleParamError(t *testing.T) {
	engine := gin.New()
	engine.POST("/register", func(c *gin.Context) {
		var req request.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
		HandleCreated(c, nil)
	})

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"x@y.com","password":"123456","name":"n","phone":"123"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"phone":"phone必须是有效的手机号"`)

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":400,"msg":"请求参数错误"}`, w.Body.String())

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"x@y.com","password":"123456","name":"n","phone":"13800138000"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSuccessWithMeta(t *testing.T) {
	engine := gin.New()
	engine.GET("/list", func(c *gin.Context) {
		HandleSuccessWithMeta(c, []int{1}, &respond.PageMeta{Total: 1, Page: 1, Limit: 12})
	})
	w := serve(engine, httptest.NewRequest(http.MethodGet, "/list", nil))
	assert.JSONEq(t, `{"code":200,"msg":"success","data":[1],"meta":{"total":1,"page":1,"limit":12}}`, w.Body.String())
}

// ==================== 宠物 ====================

type stubPetService struct {
	service.PetService
	created  request.CreatePetRequest
	photos   int
	actor    string
	isAdmin  bool
	listArgs request.PetListQuery
}

func (s *stubPetService) Create(_ context.Context, publisherId string, req request.CreatePetRequest, photos []*multipart.FileHeader) (*respond.PetDetailRespond, error) {
	s.actor, s.created, s.photos = publisherId, req, len(photos)
	return &respond.PetDetailRespond{PetRespond: respond.PetRespond{Id: "pet-1", Name: req.Name}}, nil
}

func (s *stubPetService) Delete(_ context.Context, _, actorId string, isAdmin bool) error {
	s.actor, s.isAdmin = actorId, isAdmin
	return errorx.New(errorx.CodeForbidden, "无权操作该宠物")
}

func (s *stubPetService) List(_ context.Context, q request.PetListQuery) ([]respond.PetRespond, *respond.PageMeta, error) {
	s.listArgs = q
	return []respond.PetRespond{}, &respond.PageMeta{Page: 1, Limit: 12}, nil
}

func petEngine(svc service.PetService, role string) *gin.Engine {
	h := NewPetHandler(svc)
	engine := gin.New()
	engine.GET("/pets", h.List)
	authed := engine.Group("", asUser("u1", role))
	authed.POST("/pets", h.Create)
	authed.DELETE("/pets/:id", h.Delete)
	authed.POST("/pets/:id/photos", h.AddPhotos)
	return engine
}

func TestPetCreateJSON(t *testing.T) {
	svc := &stubPetService{}
	req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{"name":"Rex","age":12,"isVaccinated":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(petEngine(svc, model.RoleUser), req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u1", svc.actor)
	assert.Equal(t, "Rex", svc.created.Name)
	assert.True(t, svc.created.IsVaccinated)
	assert.Zero(t, svc.photos)
}

func TestPetCreateMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "咪咪"))
	require.NoError(t, mw.WriteField("primary_index", "1"))
	for _, name := range []string{"a.png", "b.png"} {
		part, err := mw.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	}
	require.NoError(t, mw.Close())

	svc := &stubPetService{}
	req := httptest.NewRequest(http.MethodPost, "/pets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := serve(petEngine(svc, model.RoleUser), req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "咪咪", svc.created.Name)
	assert.Equal(t, 1, svc.created.PrimaryIndex)
	assert.Equal(t, 2, svc.photos)
}

func TestPetCreateValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{"age":12}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(petEngine(&stubPetService{}, model.RoleUser), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)
}

func TestPetDeletePassesAdminFlag(t *testing.T) {
	svc := &stubPetService{}
	w := serve(petEngine(svc, model.RoleAdmin), httptest.NewRequest(http.MethodDelete, "/pets/p1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, svc.isAdmin)
}

func TestPetListQuery(t *testing.T) {
	svc := &stubPetService{}
	w := serve(petEngine(svc, ""), httptest.NewRequest(http.MethodGet, "/pets?age=young&status=all&sort=views&location=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "young", svc.listArgs.Age)
	assert.Equal(t, "all", svc.listArgs.Status)
	// 查询参数按字符串处理，不做类型猜测
	assert.Equal(t, "true", svc.listArgs.Location)

	w = serve(petEngine(svc, ""), httptest.NewRequest(http.MethodGet, "/pets?sort=random", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPhotosRequiresFiles(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pets/p1/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := serve(petEngine(&stubPetService{}, model.RoleUser), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "请选择要上传的照片")
}

// ==================== 私信 ====================

type stubMessageService struct {
	service.MessageService
	called string
	with   string
}

func (s *stubMessageService) Conversation(_ context.Context, _, otherId string, _ request.PageQuery) ([]respond.MessageRespond, *respond.PageMeta, error) {
	s.called, s.with = "conversation", otherId
	return []respond.MessageRespond{}, &respond.PageMeta{}, nil
}

func (s *stubMessageService) Inbox(context.Context, string, request.PageQuery) ([]respond.MessageRespond, *respond.PageMeta, error) {
	s.called = "inbox"
	return nil, nil, errorx.ErrServerBusy
}

func TestMessageListDispatch(t *testing.T) {
	svc := &stubMessageService{}
	h := NewMessageHandler(svc)
	engine := gin.New()
	engine.GET("/messages", asUser("u1", model.RoleUser), h.List)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/messages?with=u2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "conversation", svc.called)
	assert.Equal(t, "u2", svc.with)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/messages", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "inbox", svc.called)
}

// ==================== 认证 ====================

type stubUserService struct {
	service.UserService
}

func (stubUserService) Login(context.Context, request.LoginRequest) (*respond.AuthRespond, error) {
	return &respond.AuthRespond{Token: "tok"}, nil
}

func TestLoginSetsCookieAndLogoutClears(t *testing.T) {
	h := NewAuthHandler(stubUserService{}, true)
	engine := gin.New()
	engine.POST("/login", h.Login)
	engine.POST("/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(engine, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=tok")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=Lax")

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}
