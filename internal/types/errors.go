package types

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
// 四类错误对各自触发的操作都是终止性的，但绝不终止进程：
// 失败的操作不改变任何会话状态，由调用方把错误呈现给用户后可直接重试。
var (
	ErrValidationFailed    = errors.New("上传文件校验失败")   // 文件缺失/类型不对/超出大小限制
	ErrExtractionFailed    = errors.New("提取简历文本失败")   // PDF结构损坏或无法解析
	ErrNormalizationFailed = errors.New("简历结构化提取失败")  // 模型调用失败或回复无法解析为档案
	ErrDialogueFailed      = errors.New("生成面试对话失败")   // 面试轮次中模型调用失败
)

// ProcessError 包含详细错误信息的自定义错误
type ProcessError struct {
	Op      string // 出错的操作，例如 "validate", "extract"
	BaseErr error  // 基础错误类型，用于 errors.Is 判断
	Detail  string // 具体失败原因
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s): %s", e.BaseErr, e.Op, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s)", e.BaseErr, e.Op)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewValidationError(detail string) error {
	return &ProcessError{
		Op:      "validate",
		BaseErr: ErrValidationFailed,
		Detail:  detail,
	}
}

func NewExtractionError(detail string) error {
	return &ProcessError{
		Op:      "extract",
		BaseErr: ErrExtractionFailed,
		Detail:  detail,
	}
}

func NewNormalizationError(detail string) error {
	return &ProcessError{
		Op:      "normalize",
		BaseErr: ErrNormalizationFailed,
		Detail:  detail,
	}
}

func NewDialogueError(detail string) error {
	return &ProcessError{
		Op:      "dialogue",
		BaseErr: ErrDialogueFailed,
		Detail:  detail,
	}
}
