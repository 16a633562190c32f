package router

import (
	"context"
	"errors"

	"interview-agent-go/internal/handler"
	"interview-agent-go/internal/interview"
	"interview-agent-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, interviewHandler *handler.InterviewHandler) {
	api := h.Group("/api/v1")

	// 上传简历并触发分析
	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		// 获取上传的文件
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		// 打开文件
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := interviewHandler.HandleResumeUpload(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	// 查看当前档案
	api.GET("/profile", func(c context.Context, ctx *app.RequestContext) {
		profile, ok := interviewHandler.HandleGetProfile()
		if !ok {
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "候选人档案未设置"})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"profile": profile})
	})

	// 人工编辑档案，整体覆盖
	api.PUT("/profile", func(c context.Context, ctx *app.RequestContext) {
		var profile types.CandidateProfile
		if err := ctx.BindJSON(&profile); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是合法的候选人档案"})
			return
		}
		interviewHandler.HandleUpdateProfile(profile)
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	// 开始面试
	api.POST("/interview/start", func(c context.Context, ctx *app.RequestContext) {
		entry, err := interviewHandler.HandleStartSession(c)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"entry": entry})
	})

	// 提交一轮候选人输入
	api.POST("/interview/turn", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			Input string `json:"input"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
			return
		}

		entry, err := interviewHandler.HandleSubmitTurn(c, req.Input)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"entry": entry})
	})

	// 查看完整对话记录
	api.GET("/interview/transcript", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"transcript": interviewHandler.HandleGetTranscript()})
	})

	// 添加健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}

// writeError 把内部错误类别映射为HTTP状态码
// 校验失败→400；提取失败→422；LLM相关失败→502；会话前置条件不满足→409。
func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, types.ErrValidationFailed):
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
	case errors.Is(err, types.ErrExtractionFailed):
		ctx.JSON(consts.StatusUnprocessableEntity, utils.H{"error": err.Error()})
	case errors.Is(err, types.ErrNormalizationFailed), errors.Is(err, types.ErrDialogueFailed):
		ctx.JSON(consts.StatusBadGateway, utils.H{"error": err.Error()})
	case errors.Is(err, interview.ErrNoProfile),
		errors.Is(err, interview.ErrNotInSession),
		errors.Is(err, interview.ErrInterviewConcluded):
		ctx.JSON(consts.StatusConflict, utils.H{"error": err.Error()})
	default:
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
	}
}
