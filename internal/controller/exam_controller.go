package controller

import (
	"net/http"
	"ragbot_backend/internal/service"
	"ragbot_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

func parseQuestionID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.Detail(ctx, http.StatusNotFound, util.ErrQuestionNotFound.Error())
		return 0, false
	}
	return uint(id), true
}

// ---- 题目管理（需认证）----

// ListQuestions godoc
// @Summary 列出全部题目
// @Description 按 order_index 排序，含答案和解析
// @Tags 测验
// @Produce json
// @Success 200 {array} model.ExamQuestion
// @Router /exam/questions [get]
func (c *ExamController) ListQuestions(ctx *gin.Context) {
	questions, err := c.ExamService.ListQuestions()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// CreateQuestion godoc
// @Summary 新建题目
// @Tags 测验
// @Accept json
// @Produce json
// @Param body body service.QuestionCreate true "题目内容"
// @Success 200 {object} model.ExamQuestion
// @Router /exam/questions [post]
func (c *ExamController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionCreate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	q, err := c.ExamService.CreateQuestion(&req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, q)
}

// UpdateQuestion godoc
// @Summary 修改题目
// @Description 部分更新，缺失字段保持原值
// @Tags 测验
// @Accept json
// @Produce json
// @Param id path int true "题目 ID"
// @Param body body service.QuestionPatch true "要修改的字段"
// @Success 200 {object} model.ExamQuestion
// @Failure 404 {object} object "题目不存在"
// @Router /exam/questions/{id} [put]
func (c *ExamController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseQuestionID(ctx)
	if !ok {
		return
	}

	var patch service.QuestionPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	q, err := c.ExamService.UpdateQuestion(id, &patch)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测验
// @Produce json
// @Param id path int true "题目 ID"
// @Success 200 {object} object "删除成功"
// @Failure 404 {object} object "题目不存在"
// @Router /exam/questions/{id} [delete]
func (c *ExamController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseQuestionID(ctx)
	if !ok {
		return
	}

	if err := c.ExamService.DeleteQuestion(id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// UploadQuestionImage godoc
// @Summary 上传题目配图
// @Description 按内容嗅探校验图片类型，不信任扩展名
// @Tags 测验
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "题目 ID"
// @Param file formData file true "图片文件"
// @Success 200 {object} object "image_url"
// @Failure 400 {object} object "不是图片"
// @Failure 404 {object} object "题目不存在"
// @Router /exam/questions/{id}/upload-image [post]
func (c *ExamController) UploadQuestionImage(ctx *gin.Context) {
	id, ok := parseQuestionID(ctx)
	if !ok {
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		util.Detail(ctx, http.StatusBadRequest, "No file provided")
		return
	}

	imageURL, err := c.ExamService.SaveQuestionImage(id, fh)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

// ServeImage godoc
// @Summary 获取题目配图
// @Tags 测验
// @Produce octet-stream
// @Param filename path string true "文件名"
// @Success 200 {file} binary
// @Failure 404 {object} object "图片不存在"
// @Router /exam/images/{filename} [get]
func (c *ExamController) ServeImage(ctx *gin.Context) {
	path, err := c.ExamService.ImagePath(ctx.Param("filename"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.File(path)
}

// ---- 测验配置 ----

// GetExamConfig godoc
// @Summary 读取测验配置
// @Tags 测验
// @Produce json
// @Success 200 {object} model.ExamConfig
// @Router /exam/config [get]
func (c *ExamController) GetExamConfig(ctx *gin.Context) {
	cfg, err := c.ExamService.GetConfig()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// UpdateExamConfig godoc
// @Summary 更新测验配置
// @Description 部分更新，缺失字段保持原值
// @Tags 测验
// @Accept json
// @Produce json
// @Param body body service.ExamConfigPatch true "要修改的字段"
// @Success 200 {object} model.ExamConfig
// @Router /exam/config [post]
func (c *ExamController) UpdateExamConfig(ctx *gin.Context) {
	var patch service.ExamConfigPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := c.ExamService.UpdateConfig(&patch)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// PublicExamConfig godoc
// @Summary 挂件可见的测验配置
// @Description 只含标题和描述
// @Tags 测验
// @Produce json
// @Success 200 {object} service.PublicExamConfig
// @Router /exam/public/config [get]
func (c *ExamController) PublicExamConfig(ctx *gin.Context) {
	cfg, err := c.ExamService.GetPublicConfig()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// ---- 公开答题 ----

// PublicQuestions godoc
// @Summary 获取可作答题目
// @Description 只返回启用的题目，剥离答案和解析；可配置乱序
// @Tags 测验
// @Produce json
// @Success 200 {array} service.PublicQuestion
// @Router /exam/public/questions [get]
func (c *ExamController) PublicQuestions(ctx *gin.Context) {
	questions, err := c.ExamService.PublicQuestions()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// CheckAnswer godoc
// @Summary 校验单题作答
// @Description 选项字母大小写不敏感；答案披露受配置控制
// @Tags 测验
// @Accept json
// @Produce json
// @Param body body service.AnswerSubmission true "作答内容"
// @Success 200 {object} service.AnswerResult
// @Failure 404 {object} object "题目不存在"
// @Router /exam/public/check-answer [post]
func (c *ExamController) CheckAnswer(ctx *gin.Context) {
	var req service.AnswerSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.ExamService.CheckAnswer(req.QuestionID, req.SelectedAnswer)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Submit godoc
// @Summary 整卷提交
// @Description 计分、持久化成绩并按需外发 webhook；webhook 失败不影响提交
// @Tags 测验
// @Accept json
// @Produce json
// @Param body body service.ExamSubmission true "整卷作答"
// @Success 200 {object} service.SubmissionResult
// @Router /exam/public/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	var req service.ExamSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Detail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.ExamService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Results godoc
// @Summary 查询成绩记录
// @Description 按完成时间倒序，最多 100 条
// @Tags 测验
// @Produce json
// @Success 200 {array} model.ExamResult
// @Router /exam/results [get]
func (c *ExamController) Results(ctx *gin.Context) {
	results, err := c.ExamService.RecentResults()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}
