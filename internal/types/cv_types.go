package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConfidenceSource 置信度来源标签
const (
	SourceRegex      = "regex"                  // 正则提取
	SourcePattern    = "pattern_match"          // 模式匹配
	SourceURLPattern = "url_pattern"            // URL模式匹配
	SourceHeader     = "header_pattern"         // 块头部模式匹配
	SourceKeyword    = "keyword_match"          // 关键词匹配
	SourceExtraction = "keyword_extraction"     // 关键词抽取
	SourceDateParser = "date_parser"            // 日期解析
	SourceNLP        = "nlp"                    // NLP抽取
	SourceLLM        = "llm"                    // LLM覆盖层
	SourceTemporal   = "temporal_extrapolation" // 时间线外推
	SourceSemantic   = "semantic_matching"      // 语义匹配
)

// ConfidenceScore 记录单个提取字段的置信度
// Value 取值范围 [0,1]，表示提取可靠性而非正确性
type ConfidenceScore struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"`
	Reason string  `json:"reason,omitempty"`
}

// NewConfidence 构造置信度评分
func NewConfidence(value float64, source string) ConfidenceScore {
	return ConfidenceScore{Value: value, Source: source}
}

// FlexDate 弹性日期类型
// 序列化为 ISO-8601 日期字符串，无法解析时为 "Unknown"，在职经历的结束日期为 "Present"
type FlexDate struct {
	Time    time.Time // 解析后的日期
	Valid   bool      // 是否成功解析
	Current bool      // 是否表示 "Present"
}

// NewFlexDate 由time.Time构造有效日期
func NewFlexDate(t time.Time) FlexDate {
	return FlexDate{Time: t, Valid: true}
}

// PresentDate 构造表示"至今"的日期
func PresentDate() FlexDate {
	return FlexDate{Current: true}
}

// MarshalJSON 实现json.Marshaler
func (d FlexDate) MarshalJSON() ([]byte, error) {
	switch {
	case d.Current:
		return json.Marshal("Present")
	case d.Valid:
		return json.Marshal(d.Time.Format("2006-01-02"))
	default:
		return json.Marshal("Unknown")
	}
}

// UnmarshalJSON 实现json.Unmarshaler，接受ISO日期、"Present"与"Unknown"
func (d *FlexDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Present":
		*d = PresentDate()
		return nil
	case "", "Unknown":
		*d = FlexDate{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewFlexDate(t)
			return nil
		}
	}
	return fmt.Errorf("无法解析日期: %q", s)
}

// Year 返回年份，无效日期返回0
func (d FlexDate) Year() int {
	if !d.Valid {
		return 0
	}
	return d.Time.Year()
}

// ContactInfo 联系方式
// 未能提取的字段保持为空，不以0置信度占位
type ContactInfo struct {
	Email      string                     `json:"email,omitempty"`
	Phone      string                     `json:"phone,omitempty"`
	LinkedIn   string                     `json:"linkedin,omitempty"`
	GitHub     string                     `json:"github,omitempty"`
	Location   string                     `json:"location,omitempty"`
	Confidence map[string]ConfidenceScore `json:"confidence,omitempty"`
}

// Experience 一段工作经历
type Experience struct {
	ID               string                     `json:"id"`   // exp_前缀 + 内容哈希截断8位
	Company          string                     `json:"company"`
	Title            string                     `json:"title"`
	Location         string                     `json:"location,omitempty"`
	StartDate        FlexDate                   `json:"start_date"`
	EndDate          FlexDate                   `json:"end_date"`
	IsCurrent        bool                       `json:"is_current"`
	DurationMonths   int                        `json:"duration_months,omitempty"`
	Responsibilities []string                   `json:"responsibilities"`
	Achievements     []string                   `json:"achievements"`
	Technologies     []string                   `json:"technologies"`
	RawExcerpt       string                     `json:"raw_excerpt,omitempty"` // 有界长度的原文片段，用于审计
	Confidence       map[string]ConfidenceScore `json:"confidence,omitempty"`
}

// Education 一条教育经历
type Education struct {
	Institution  string                     `json:"institution"`
	Degree       string                     `json:"degree"` // 归一化后的学历标签 + 可选专业
	FieldOfStudy string                     `json:"field_of_study,omitempty"`
	Location     string                     `json:"location,omitempty"`
	StartDate    string                     `json:"start_date"` // 年份字符串；推断值 = 结束年 - 4
	EndDate      string                     `json:"end_date"`
	Confidence   map[string]ConfidenceScore `json:"confidence,omitempty"`
}

// Skill 一项技能
type Skill struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"` // 固定类目: programming/framework/database/cloud/devops/ml_framework/tool/unknown
	Proficiency string          `json:"proficiency,omitempty"`
	Years       float64         `json:"years,omitempty"` // 仅由CrossReferencer根据经历时间线推断
	Confidence  ConfidenceScore `json:"confidence"`
}

// ImpactMetric 项目中的量化指标声明
type ImpactMetric struct {
	Type  string `json:"type"` // latency_reduction / user_base / team_size / uptime
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// Project 一个项目经历
type Project struct {
	ID                  string                     `json:"id"` // proj_前缀 + 名称哈希截断8位
	Name                string                     `json:"name"`
	Description         string                     `json:"description"`
	Technologies        []string                   `json:"technologies"`
	ImpactMetrics       []ImpactMetric             `json:"impact_metrics"`
	LinkedExperienceIDs []string                   `json:"linked_experience_ids"`
	Confidence          map[string]ConfidenceScore `json:"confidence,omitempty"`
}

// Language 语言能力
type Language struct {
	Name    string `json:"name"`
	Level   string `json:"level"`
	ISOCode string `json:"iso_code"` // 取名称前两个字符的近似值，并非ISO查表
}

// Metadata 单次解析的元数据
type Metadata struct {
	ParsedAt      time.Time `json:"parsed_at"`
	FileHash      string    `json:"file_hash"`
	ParsingMethod string    `json:"parsing_method"` // regex_only 或 llm+regex
	TextLength    int       `json:"text_length"`
}

// CandidateRecord 单份简历的完整结构化结果
// 由单次流水线运行独占产出，产出后不可变
type CandidateRecord struct {
	FullName          string             `json:"full_name"`
	Title             string             `json:"title"`
	Contact           ContactInfo        `json:"contact"`
	Summary           string             `json:"summary"`
	Experience        []Experience       `json:"experience"`
	Education         []Education        `json:"education"`
	Skills            []Skill            `json:"skills"`
	Projects          []Project          `json:"projects"`
	Languages         []Language         `json:"languages"`
	Hobbies           []string           `json:"hobbies"`
	YearsOfExperience float64            `json:"years_of_experience"`
	Metadata          Metadata           `json:"metadata"`
	Confidence        map[string]float64 `json:"confidence"`
}

// SkillNames 返回技能显示名列表，供打分引擎使用
func (r *CandidateRecord) SkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	return names
}

// JobRequirements 岗位要求，外部提供，打分引擎只读
type JobRequirements struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	MinYearsExperience float64  `json:"min_years_experience"`
	RequiredEducation  string   `json:"required_education"`
}

// ScoreCounts 打分过程中的原始计数，用于可解释性
type ScoreCounts struct {
	JobTitleMatch          float64 `json:"job_title_match"`
	JobDescriptionMatch    float64 `json:"job_description_match"`
	RequiredSkillsMatched  int     `json:"required_skills_matched"`
	RequiredSkillsTotal    int     `json:"required_skills_total"`
	PreferredSkillsMatched int     `json:"preferred_skills_matched"`
	PreferredSkillsTotal   int     `json:"preferred_skills_total"`
	CandidateYears         float64 `json:"candidate_years"`
	RequiredYears          float64 `json:"required_years"`
	HasEducation           bool    `json:"has_education"`
}

// ScoreBreakdown 六因子加权匹配评分结果
// 每次 (候选人, 岗位) 评估新建一份，本核心不做持久化
type ScoreBreakdown struct {
	JobTitleScore        float64     `json:"jobTitleScore"`
	JobDescriptionScore  float64     `json:"jobDescriptionScore"`
	RequiredSkillsScore  float64     `json:"requiredSkillsScore"`
	PreferredSkillsScore float64     `json:"preferredSkillsScore"`
	YearsExperienceScore float64     `json:"yearsExperienceScore"`
	EducationScore       float64     `json:"educationScore"`
	TotalScore           float64     `json:"totalScore"`
	// 兼容旧版评分接口的聚合字段
	SkillsScore     float64     `json:"skillsScore"`
	ExperienceScore float64     `json:"experienceScore"`
	MatchedSkills   []string    `json:"matchedSkills"`
	UnmatchedSkills []string    `json:"unmatchedSkills"`
	Breakdown       ScoreCounts `json:"breakdown"`
	Reasoning       string      `json:"reasoning"`
}
