package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/types"
)

func testCandidate() *types.CandidateRecord {
	return &types.CandidateRecord{
		FullName: "Jane Doe",
		Contact:  types.ContactInfo{Email: "jane@acme.io"},
		Skills: []types.Skill{
			{Name: "Go"},
			{Name: "Docker"},
			{Name: "PostgreSQL"},
		},
		Experience: []types.Experience{
			{Title: "Backend Engineer", RawExcerpt: "built microservices in go with docker"},
		},
		Education: []types.Education{
			{Degree: "Master's Computer Science", Institution: "TU Berlin"},
		},
		YearsOfExperience: 6,
	}
}

func TestScoreRequiredSkills(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	// 必备技能2/2命中，大小写不敏感
	job := &types.JobRequirements{RequiredSkills: []string{"go", "DOCKER"}}
	breakdown := engine.Score(candidate, job)
	assert.Equal(t, 100.0, breakdown.RequiredSkillsScore)
	assert.Equal(t, []string{"go", "DOCKER"}, breakdown.MatchedSkills)
	assert.Empty(t, breakdown.UnmatchedSkills)

	// 部分命中按比例给分，未命中项保持岗位声明顺序
	job = &types.JobRequirements{RequiredSkills: []string{"Go", "Rust"}}
	breakdown = engine.Score(candidate, job)
	assert.Equal(t, 50.0, breakdown.RequiredSkillsScore)
	assert.Equal(t, []string{"Rust"}, breakdown.UnmatchedSkills)

	// 无必备技能要求视为满分
	breakdown = engine.Score(candidate, &types.JobRequirements{})
	assert.Equal(t, 100.0, breakdown.RequiredSkillsScore)
}

func TestScorePreferredSkills(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	// 无加分项时为0而非满分
	breakdown := engine.Score(candidate, &types.JobRequirements{})
	assert.Equal(t, 0.0, breakdown.PreferredSkillsScore)

	job := &types.JobRequirements{PreferredSkills: []string{"PostgreSQL", "Redis"}}
	breakdown = engine.Score(candidate, job)
	assert.Equal(t, 50.0, breakdown.PreferredSkillsScore)
}

func TestScoreYearsExperience(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	// 恰好满足要求
	job := &types.JobRequirements{MinYearsExperience: 6}
	assert.Equal(t, 100.0, engine.Score(candidate, job).YearsExperienceScore)

	// 比例上限1.5但得分上限100
	job = &types.JobRequirements{MinYearsExperience: 2}
	assert.Equal(t, 100.0, engine.Score(candidate, job).YearsExperienceScore)

	// 不足时按比例
	job = &types.JobRequirements{MinYearsExperience: 12}
	assert.Equal(t, 50.0, engine.Score(candidate, job).YearsExperienceScore)

	// 岗位无年限要求：有经验满分，无经验取中位
	assert.Equal(t, 100.0, engine.Score(candidate, &types.JobRequirements{}).YearsExperienceScore)
	empty := &types.CandidateRecord{}
	assert.Equal(t, 50.0, engine.Score(empty, &types.JobRequirements{}).YearsExperienceScore)
}

func TestScoreEducation(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	// 无教育经历得0
	empty := &types.CandidateRecord{}
	assert.Equal(t, 0.0, engine.Score(empty, &types.JobRequirements{}).EducationScore)

	// 有教育经历但无学历要求得基础分
	assert.Equal(t, 50.0, engine.Score(candidate, &types.JobRequirements{}).EducationScore)

	// 双向包含匹配：要求是学位串的子串
	job := &types.JobRequirements{RequiredEducation: "Master's"}
	assert.Equal(t, 100.0, engine.Score(candidate, job).EducationScore)

	// 学位串是要求的子串同样命中
	job = &types.JobRequirements{RequiredEducation: "Master's Computer Science or equivalent"}
	assert.Equal(t, 100.0, engine.Score(candidate, job).EducationScore)

	// 不匹配的要求保持基础分
	job = &types.JobRequirements{RequiredEducation: "PhD"}
	assert.Equal(t, 50.0, engine.Score(candidate, job).EducationScore)
}

func TestScoreTitleSimilarity(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	// 完全一致的头衔经1.5提升后截断到满分
	job := &types.JobRequirements{Title: "Backend Engineer"}
	assert.Equal(t, 100.0, engine.Score(candidate, job).JobTitleScore)

	// 无任何经历时为0
	empty := &types.CandidateRecord{}
	assert.Equal(t, 0.0, engine.Score(empty, job).JobTitleScore)

	// 无岗位名称时为0
	assert.Equal(t, 0.0, engine.Score(candidate, &types.JobRequirements{}).JobTitleScore)
}

func TestScoreDescriptionSimilarity(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	// 无描述时取中性值50
	assert.Equal(t, 50.0, engine.Score(candidate, &types.JobRequirements{}).JobDescriptionScore)

	// 关键词全部命中经1.2提升后截断到满分
	job := &types.JobRequirements{Description: "microservices docker"}
	assert.Equal(t, 100.0, engine.Score(candidate, job).JobDescriptionScore)

	// 过短的虚词不参与关键词统计
	job = &types.JobRequirements{Description: "a an of"}
	assert.Equal(t, 50.0, engine.Score(candidate, job).JobDescriptionScore)
}

func TestScoreTotalWeighting(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	job := &types.JobRequirements{
		Title:              "Backend Engineer",
		Description:        "microservices docker",
		RequiredSkills:     []string{"Go", "Docker"},
		PreferredSkills:    []string{"PostgreSQL"},
		MinYearsExperience: 5,
		RequiredEducation:  "Master's",
	}
	breakdown := engine.Score(candidate, job)

	// 全因子满分时总分为100
	assert.Equal(t, 100.0, breakdown.TotalScore)

	// 兼容聚合字段：必备70% + 加分30%
	assert.Equal(t, 100.0, breakdown.SkillsScore)

	// 原始计数可解释性
	assert.Equal(t, 2, breakdown.Breakdown.RequiredSkillsMatched)
	assert.Equal(t, 6.0, breakdown.Breakdown.CandidateYears)
	assert.True(t, breakdown.Breakdown.HasEducation)
}

func TestScoreDeterministic(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()
	job := &types.JobRequirements{
		Title:          "Backend Engineer",
		RequiredSkills: []string{"Go", "Rust", "Docker"},
	}

	// 相同输入必得相同输出，含切片顺序
	a := engine.Score(candidate, job)
	b := engine.Score(candidate, job)
	assert.Equal(t, a, b)
}

func TestScoreReasoning(t *testing.T) {
	engine := NewEngine()
	candidate := testCandidate()

	job := &types.JobRequirements{
		RequiredSkills:     []string{"Go", "Rust"},
		MinYearsExperience: 4,
	}
	breakdown := engine.Score(candidate, job)

	// 年限整数值带 .0 后缀
	assert.Contains(t, breakdown.Reasoning, "1/2 required skills (50%)")
	assert.Contains(t, breakdown.Reasoning, "6.0yrs experience (required: 4.0yrs, 100%)")

	// 无年限要求时的表述
	breakdown = engine.Score(candidate, &types.JobRequirements{})
	assert.Contains(t, breakdown.Reasoning, "6.0 years of experience")
}

func TestFormatYears(t *testing.T) {
	assert.Equal(t, "6.0", formatYears(6))
	assert.Equal(t, "3.5", formatYears(3.5))
	assert.Equal(t, "0.0", formatYears(0))
}
