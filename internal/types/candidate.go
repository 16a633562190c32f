package types // 定义了面试助手系统中共享的数据类型

// 对话角色常量
const (
	RoleAssistant = "assistant" // 面试官（模型生成）
	RoleCandidate = "candidate" // 候选人（外部输入）
)

// CandidateProfile 归一化后的候选人档案
// 由简历文本经过一次LLM结构化提取得到，之后仅允许人工编辑修改。
// 它是后续所有面试轮次的唯一数据来源。
// 不变式：反序列化成功后每个字段都必须有定义的值，缺失的数据用空字符串或空切片补齐，
// 绝不允许出现"缺键"状态（参见 EnsureDefaults）。
type CandidateProfile struct {
	FullName          string             `json:"full_name"`           // 姓名
	Email             string             `json:"email"`               // 邮箱（不做格式校验，接受任意字符串）
	PhoneNumber       string             `json:"phone_number"`        // 电话号码
	YearsOfExperience string             `json:"years_of_experience"` // 经验年限（自由文本，不保证是数字）
	DesiredPositions  []string           `json:"desired_positions"`   // 期望岗位（有序）
	CurrentLocation   string             `json:"current_location"`    // 当前所在地
	TechStack         []string           `json:"tech_stack"`          // 技术栈（有序）
	Skills            CandidateSkills    `json:"skills"`              // 软硬技能
	Projects          []CandidateProject `json:"projects"`            // 项目经历（有序）
}

// CandidateSkills 候选人技能分组
type CandidateSkills struct {
	SoftSkills []string `json:"soft_skills"` // 软技能
	HardSkills []string `json:"hard_skills"` // 硬技能
}

// CandidateProject 候选人的一段项目经历
type CandidateProject struct {
	Name             string   `json:"name"`              // 项目名称
	Description      string   `json:"description"`       // 项目描述
	TechnologiesUsed []string `json:"technologies_used"` // 使用的技术（有序）
}

// EnsureDefaults 用空切片补齐反序列化后为nil的集合字段
// LLM即使被提示"缺失数据用空占位符填充"，也可能直接省略某个键，
// encoding/json 对省略的切片字段会留下nil。这里统一补齐，
// 保证档案在序列化回前端时所有键都存在且类型正确。
func (p *CandidateProfile) EnsureDefaults() {
	if p.DesiredPositions == nil {
		p.DesiredPositions = []string{}
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Skills.SoftSkills == nil {
		p.Skills.SoftSkills = []string{}
	}
	if p.Skills.HardSkills == nil {
		p.Skills.HardSkills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []CandidateProject{}
	}
	for i := range p.Projects {
		if p.Projects[i].TechnologiesUsed == nil {
			p.Projects[i].TechnologiesUsed = []string{}
		}
	}
}

// TranscriptEntry 面试记录中的一轮发言
type TranscriptEntry struct {
	Role    string `json:"role"`    // assistant 或 candidate
	Content string `json:"content"` // 发言内容
}
