package controller

import (
	"net/http"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/service"
	"ragbot_backend/internal/util"
	"ragbot_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController 配置管理与文档桶管理。
// 外部客户端按请求构建，保证凭证修改即时生效。
type AdminController struct {
	ConfigService *service.AppConfigService
	ConfigRepo    *repository.AppConfigRepository
}

func NewAdminController(configService *service.AppConfigService, configRepo *repository.AppConfigRepository) *AdminController {
	return &AdminController{
		ConfigService: configService,
		ConfigRepo:    configRepo,
	}
}

// GetConfig godoc
// @Summary 读取全局配置
// @Description 无配置行时返回默认值；响应不含 secret key
// @Tags 管理
// @Produce json
// @Success 200 {object} model.AppConfig
// @Router /admin/config [get]
func (c *AdminController) GetConfig(ctx *gin.Context) {
	cfg, err := c.ConfigService.GetConfig()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// UpdateConfig godoc
// @Summary 更新全局配置
// @Description 部分更新，缺失字段保持原值；空 webhook_url 表示清除
// @Tags 管理
// @Accept json
// @Produce json
// @Param body body service.AppConfigPatch true "要修改的字段"
// @Success 200 {object} object "更新成功"
// @Router /admin/config [post]
func (c *AdminController) UpdateConfig(ctx *gin.Context) {
	var patch service.AppConfigPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.ConfigService.UpdateConfig(&patch); err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Configuration updated successfully"})
}

// PublicConfig godoc
// @Summary 挂件可见配置
// @Description 无需认证；只含展示字段，绝不返回凭证或资源标识
// @Tags 管理
// @Produce json
// @Success 200 {object} service.PublicAppConfig
// @Router /admin/public-config [get]
func (c *AdminController) PublicConfig(ctx *gin.Context) {
	cfg, err := c.ConfigService.GetPublicConfig()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// Upload godoc
// @Summary 上传文档到知识库桶
// @Description 顺序上传，首个失败即中止，已上传的保留
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "待上传文件"
// @Success 200 {object} object "上传结果"
// @Failure 400 {object} object "桶未配置"
// @Router /admin/upload [post]
func (c *AdminController) Upload(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		util.Detail(ctx, http.StatusBadRequest, "No files provided")
		return
	}

	storage, err := service.NewStorageService(c.ConfigRepo)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	uploaded, err := storage.Upload(ctx.Request.Context(), files)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":        "Files uploaded successfully",
		"uploaded_files": uploaded,
	})
}

// ListFiles godoc
// @Summary 列举桶内文档
// @Tags 管理
// @Produce json
// @Success 200 {object} object "files"
// @Router /admin/files [get]
func (c *AdminController) ListFiles(ctx *gin.Context) {
	storage, err := service.NewStorageService(c.ConfigRepo)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	objects, err := storage.ListObjects(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"files": objects})
}

// DeleteFile godoc
// @Summary 删除桶内文档
// @Tags 管理
// @Produce json
// @Param key path string true "对象键"
// @Success 200 {object} object "删除成功"
// @Router /admin/files/{key} [delete]
func (c *AdminController) DeleteFile(ctx *gin.Context) {
	// 对象键可以含 `/`，路由用通配参数接收，参数值带前导斜杠
	key := strings.TrimPrefix(ctx.Param("key"), "/")
	if key == "" {
		util.Detail(ctx, http.StatusBadRequest, "No file key provided")
		return
	}

	storage, err := service.NewStorageService(c.ConfigRepo)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	if err := storage.DeleteObject(ctx.Request.Context(), key); err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// Sync godoc
// @Summary 触发知识库同步
// @Description 启动数据源摄取任务，异步执行
// @Tags 管理
// @Produce json
// @Success 200 {object} service.IngestionJob
// @Failure 400 {object} object "KB ID 或数据源未配置"
// @Router /admin/sync [post]
func (c *AdminController) Sync(ctx *gin.Context) {
	storage, err := service.NewStorageService(c.ConfigRepo)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	job, err := storage.StartIngestionJob(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, job)
}

// Reset godoc
// @Summary 恢复出厂设置
// @Description 清空配置、管理员账号和全部测验数据
// @Tags 管理
// @Produce json
// @Success 200 {object} object "重置成功"
// @Router /admin/reset [post]
func (c *AdminController) Reset(ctx *gin.Context) {
	if err := c.ConfigService.Reset(); err != nil {
		util.RespondError(ctx, err)
		return
	}

	// 重置属于破坏性操作，留痕操作者
	if user := util.GetUserFromContext(ctx); user != nil {
		logger.Log.Info("application reset", zap.String("username", user.Username))
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Application reset successfully"})
}
