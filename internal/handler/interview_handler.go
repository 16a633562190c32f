package handler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"interview-agent-go/internal/config"
	"interview-agent-go/internal/interview"
	"interview-agent-go/internal/logger"
	"interview-agent-go/internal/types"

	"github.com/gofrs/uuid/v5"
)

// ResumeTextExtractor 简历文本提取接口
type ResumeTextExtractor interface {
	// ExtractFromFile 从PDF文件路径提取纯文本和解析器元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)
}

// ProfileNormalizer 档案归一化接口
type ProfileNormalizer interface {
	// Normalize 把简历原文归一化为候选人档案
	Normalize(ctx context.Context, rawText string) (*types.CandidateProfile, error)
}

// InterviewHandler 面试助手的人机交互边界，负责协调各组件完成边界操作
type InterviewHandler struct {
	cfg        *config.Config
	extractor  ResumeTextExtractor
	normalizer ProfileNormalizer
	session    *interview.InterviewSession
}

// NewInterviewHandler 创建一个新的面试处理器
func NewInterviewHandler(
	cfg *config.Config,
	extractor ResumeTextExtractor,
	normalizer ProfileNormalizer,
	session *interview.InterviewSession,
) *InterviewHandler {
	return &InterviewHandler{
		cfg:        cfg,
		extractor:  extractor,
		normalizer: normalizer,
		session:    session,
	}
}

// ResumeUploadResponse 简历上传的处理结果
type ResumeUploadResponse struct {
	SubmissionUUID string                  `json:"submission_uuid"` // 本次提交的UUID，用于日志关联
	Profile        *types.CandidateProfile `json:"profile"`         // 归一化后的候选人档案
}

// HandleResumeUpload 处理简历上传请求
// 流程：大小与类型校验 → 临时文件中转 → 文本提取 → LLM归一化 → 提交档案。
// 大小校验在触碰Ingestor之前完成；临时文件无论成败都会被删除；
// 归一化失败时不会覆盖已有档案，调用方把错误呈现给用户后可直接重试。
func (h *InterviewHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string) (*ResumeUploadResponse, error) {

	// 生成UUIDv7用于日志关联
	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 1. 大小上限校验，超限的请求绝不触碰Ingestor
	maxBytes := h.cfg.Upload.MaxFileSizeBytes()
	if fileSize > maxBytes {
		logger.Info().
			Str("submission_uuid", submissionUUID).
			Int64("file_size", fileSize).
			Int64("max_bytes", maxBytes).
			Msg("上传文件超出大小限制")
		return nil, types.NewValidationError(
			fmt.Sprintf("文件过大: %d字节，上限%dMiB", fileSize, h.cfg.Upload.MaxFileSizeMiB))
	}

	// 2. 声明的文件类型必须是PDF
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return nil, types.NewValidationError(fmt.Sprintf("文件必须是PDF文档: %s", filename))
	}

	// 3. 写入临时文件中转给Ingestor，无论成败都删除
	tmpFile, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("关闭临时文件失败: %w", err)
	}

	// 4. 提取文本
	text, meta, err := h.extractor.ExtractFromFile(ctx, tmpPath)
	if err != nil {
		logger.Error().
			Err(err).
			Str("submission_uuid", submissionUUID).
			Str("filename", filename).
			Msg("简历文本提取失败")
		return nil, err
	}
	if text == "" {
		return nil, types.NewExtractionError("PDF中未提取到任何文本")
	}

	logger.Debug().
		Str("submission_uuid", submissionUUID).
		Int("text_length", len(text)).
		Interface("page_count", meta["page_count"]).
		Msg("简历文本提取成功")

	// 5. LLM归一化为候选人档案（一次调用，一次解析，失败即返回）
	profile, err := h.normalizer.Normalize(ctx, text)
	if err != nil {
		logger.Error().
			Err(err).
			Str("submission_uuid", submissionUUID).
			Msg("简历归一化失败")
		return nil, err
	}

	// 6. 提交档案；进行中的面试（如有）被隐式终止
	h.session.CommitProfile(*profile)

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("candidate", profile.FullName).
		Msg("简历分析完成，候选人档案已就绪")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Profile:        profile,
	}, nil
}

// HandleUpdateProfile 人工编辑档案，无条件覆盖，不做字段格式校验
func (h *InterviewHandler) HandleUpdateProfile(profile types.CandidateProfile) {
	h.session.UpdateProfile(profile)
}

// HandleGetProfile 返回当前档案的副本
func (h *InterviewHandler) HandleGetProfile() (types.CandidateProfile, bool) {
	return h.session.Profile()
}

// HandleStartSession 开始面试，返回开场的assistant记录
func (h *InterviewHandler) HandleStartSession(ctx context.Context) (types.TranscriptEntry, error) {
	return h.session.StartSession(ctx)
}

// HandleSubmitTurn 提交一轮候选人输入，返回面试官回复记录
func (h *InterviewHandler) HandleSubmitTurn(ctx context.Context, input string) (types.TranscriptEntry, error) {
	return h.session.SubmitTurn(ctx, input)
}

// HandleGetTranscript 返回当前对话记录
func (h *InterviewHandler) HandleGetTranscript() []types.TranscriptEntry {
	return h.session.Transcript()
}
