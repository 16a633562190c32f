package interview

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"interview-agent-go/internal/logger"
	"interview-agent-go/internal/types"

	"github.com/google/uuid"
)

// 会话状态前置条件不满足时的错误
var (
	ErrNoProfile          = errors.New("候选人档案未设置，无法开始面试")
	ErrNotInSession       = errors.New("面试尚未开始")
	ErrInterviewConcluded = errors.New("面试已达到提问数量上限")
)

// SessionState 表示面试会话的当前状态
type SessionState int

const (
	StateEmpty        SessionState = iota // 尚未设置候选人档案
	StateProfileReady                     // 档案就绪，面试未开始
	StateInSession                        // 面试进行中
)

// String 方法使得 SessionState 可以被打印
func (s SessionState) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateProfileReady:
		return "PROFILE_READY"
	case StateInSession:
		return "IN_SESSION"
	default:
		return "UNKNOWN"
	}
}

// 开场轮使用的对话上下文指令
const openingInstruction = "Start the interview with a greeting and first question"

// InterviewSession 面试会话管理器，进程内唯一的状态机
// 持有权威的候选人档案（人工编辑后）和有序的对话记录。
// 生命周期：进程启动时创建为空；每次简历分析成功会提交一份新档案并把
// started 复位、清空记录；started 只能由显式的用户动作置为true，该动作
// 同时清空记录。会话绝不跨进程存活，没有任何持久化存储。
//
// 状态机本身是单占用的协作式执行模型，但因为通过HTTP对外暴露，
// 这里用互斥锁保证操作级别的串行化。
type InterviewSession struct {
	mu sync.Mutex

	sessionID  string                  // 当前面试的会话ID，StartSession时分配
	profile    *types.CandidateProfile // 权威候选人档案，nil表示EMPTY
	transcript []types.TranscriptEntry // 对话记录，会话内只追加
	started    bool

	interviewer *Interviewer

	// 提问数量的机械硬上限，0表示关闭。
	// 这是在原始行为之外额外加的防御措施；原始设计中8-10题只是提示词里的软性指导。
	maxQuestions int
}

// SessionOption 是会话管理器的配置选项
type SessionOption func(*InterviewSession)

// WithMaxQuestions 设置面试官提问数量的机械硬上限（0为关闭）
func WithMaxQuestions(n int) SessionOption {
	return func(s *InterviewSession) {
		s.maxQuestions = n
	}
}

// NewInterviewSession 创建一个空的面试会话
func NewInterviewSession(interviewer *Interviewer, options ...SessionOption) *InterviewSession {
	s := &InterviewSession{
		interviewer: interviewer,
	}

	// 应用选项
	for _, opt := range options {
		opt(s)
	}

	return s
}

// State 返回会话当前所处的状态
func (s *InterviewSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.profile == nil:
		return StateEmpty
	case !s.started:
		return StateProfileReady
	default:
		return StateInSession
	}
}

// CommitProfile 提交一次简历分析的成功结果
// 无论当前处于什么状态都会生效：进行中的面试被隐式终止，
// 记录被丢弃，started复位为false（重新分析不变式）。
func (s *InterviewSession) CommitProfile(profile types.CandidateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile.EnsureDefaults()
	if s.started {
		logger.Info().
			Str("session_id", s.sessionID).
			Msg("新的简历分析结果到达，终止进行中的面试")
	}
	s.profile = &profile
	s.transcript = nil
	s.started = false
	s.sessionID = ""
}

// UpdateProfile 人工编辑档案，无条件覆盖
// 不做任何字段格式校验（邮箱、电话等接受任意字符串），
// 也不影响进行中的面试；只有重新分析才会重置会话。
func (s *InterviewSession) UpdateProfile(profile types.CandidateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile.EnsureDefaults()
	s.profile = &profile
}

// Profile 返回当前档案的副本；第二个返回值表示档案是否已设置
func (s *InterviewSession) Profile() (types.CandidateProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return types.CandidateProfile{}, false
	}
	return *s.profile, true
}

// StartSession 开始面试
// 要求档案已设置；清空记录、置started，并立刻合成开场轮：
// 用开场指令调用对话生成器，把回复作为第一条assistant记录。
// 开场轮生成失败时回滚started，保证失败不改变任何状态。
func (s *InterviewSession) StartSession(ctx context.Context) (types.TranscriptEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return types.TranscriptEntry{}, ErrNoProfile
	}

	s.transcript = nil
	s.started = true
	s.sessionID = uuid.NewString()

	greeting, err := s.interviewer.Ask(ctx, *s.profile, openingInstruction)
	if err != nil {
		// 开场失败，回滚到PROFILE_READY，用户可重试
		s.started = false
		s.sessionID = ""
		return types.TranscriptEntry{}, err
	}

	entry := types.TranscriptEntry{Role: types.RoleAssistant, Content: greeting}
	s.transcript = append(s.transcript, entry)

	logger.Info().
		Str("session_id", s.sessionID).
		Str("candidate", s.profile.FullName).
		Msg("面试开始")

	return entry, nil
}

// SubmitTurn 提交一轮候选人输入并生成面试官回复
// 仅在IN_SESSION状态下合法；前置条件不满足时不改变记录。
// 候选人输入先追加为candidate记录，再用完整记录序列化后的上下文调用
// 对话生成器；生成失败时返回DialogueError，此时记录中保留刚提交的
// candidate条目但不追加任何assistant条目，该轮视为未推进，由人工重试。
func (s *InterviewSession) SubmitTurn(ctx context.Context, input string) (types.TranscriptEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.TranscriptEntry{}, ErrNotInSession
	}

	if s.maxQuestions > 0 && s.assistantTurnCount() >= s.maxQuestions {
		return types.TranscriptEntry{}, ErrInterviewConcluded
	}

	s.transcript = append(s.transcript, types.TranscriptEntry{
		Role:    types.RoleCandidate,
		Content: input,
	})

	reply, err := s.interviewer.Ask(ctx, *s.profile, s.serializeTranscript())
	if err != nil {
		// 该轮未推进；candidate条目保留，assistant条目不追加
		return types.TranscriptEntry{}, err
	}

	entry := types.TranscriptEntry{Role: types.RoleAssistant, Content: reply}
	s.transcript = append(s.transcript, entry)

	return entry, nil
}

// Transcript 返回对话记录的副本
func (s *InterviewSession) Transcript() []types.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	cpy := make([]types.TranscriptEntry, len(s.transcript))
	copy(cpy, s.transcript)
	return cpy
}

// assistantTurnCount 统计记录中面试官已发言的轮数（调用方需持锁）
func (s *InterviewSession) assistantTurnCount() int {
	count := 0
	for _, entry := range s.transcript {
		if entry.Role == types.RoleAssistant {
			count++
		}
	}
	return count
}

// serializeTranscript 把完整对话记录序列化为提示词上下文（调用方需持锁）
func (s *InterviewSession) serializeTranscript() string {
	data, err := json.MarshalIndent(s.transcript, "", "  ")
	if err != nil {
		// TranscriptEntry 只含字符串字段，序列化不应失败
		return ""
	}
	return string(data)
}
