package controller

import (
	"net/http"
	"ragbot_backend/internal/service"
	"ragbot_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// SetupAdminRequest 初始管理员创建请求
type SetupAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token godoc
// @Summary 管理员登录
// @Description 表单提交用户名密码，换取 bearer 令牌
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Success 200 {object} object "access_token + token_type"
// @Failure 401 {object} object "用户名或密码错误"
// @Router /auth/token [post]
func (c *AuthController) Token(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")

	token, err := c.AuthService.Login(username, password)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// SetupAdmin godoc
// @Summary 创建初始管理员
// @Description 系统只允许一个管理员账号，已存在时返回 400
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body SetupAdminRequest true "管理员账号信息"
// @Success 201 {object} object "创建成功"
// @Failure 400 {object} object "管理员已存在"
// @Router /auth/setup-admin [post]
func (c *AuthController) SetupAdmin(ctx *gin.Context) {
	var req SetupAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.AuthService.SetupAdmin(req.Username, req.Password); err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Admin user created successfully"})
}

// CheckSetup godoc
// @Summary 查询是否已完成初始化
// @Description 前端据此决定显示安装向导还是登录表单
// @Tags 认证
// @Produce json
// @Success 200 {object} object "is_setup"
// @Router /auth/check-setup [get]
func (c *AuthController) CheckSetup(ctx *gin.Context) {
	isSetup, err := c.AuthService.IsSetup()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"is_setup": isSetup})
}
