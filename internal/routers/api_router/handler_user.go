package api_router

import (
	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/dto"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	apperrors "github.com/haierkeys/ya-note-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户 API 路由处理器
type UserHandler struct {
	*Handler
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Register 用户注册，成功后直接签发 Token
// @Router /api/user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	params := &dto.UserCreateRequest{}
	if !h.bind(c, "UserHandler.Register", params) {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.App.UserService.Register(ctx, params); err != nil {
		h.logError(ctx, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	userDTO, err := h.App.UserService.Login(ctx, &dto.UserLoginRequest{
		Username: params.Username,
		Password: params.Password,
	}, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Register.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(userDTO))
}

// Login 用户登录，返回认证 Token
// @Router /api/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	if !h.bind(c, "UserHandler.Login", params) {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Login(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// UserInfo 获取当前用户信息
// @Router /api/user/info [get]
func (h *UserHandler) UserInfo(c *gin.Context) {
	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.GetInfo(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "UserHandler.UserInfo", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}
