package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/types"
)

func TestLinkProjectsToExperience(t *testing.T) {
	// 准备两段经历与三个项目
	experiences := []types.Experience{
		{ID: "exp_1", Company: "SAP SE", Technologies: []string{"go", "kubernetes"}},
		{ID: "exp_2", Company: "Google", Technologies: []string{"python"}},
	}
	projects := []types.Project{
		{ID: "proj_1", Description: "internal tooling built at SAP SE"},          // 描述提及公司名
		{ID: "proj_2", Technologies: []string{"python", "django"}},               // 与经历共享技术
		{ID: "proj_3", Description: "weekend game", Technologies: []string{"c"}}, // 孤立项目
	}

	LinkProjectsToExperience(projects, experiences)

	assert.Equal(t, []string{"exp_1"}, projects[0].LinkedExperienceIDs)
	assert.Equal(t, []string{"exp_2"}, projects[1].LinkedExperienceIDs)
	assert.Empty(t, projects[2].LinkedExperienceIDs)

	// 有关联0.70，孤立0.30
	assert.Equal(t, 0.70, projects[0].Confidence["linking"].Value)
	assert.Equal(t, 0.30, projects[2].Confidence["linking"].Value)
	assert.Equal(t, types.SourceSemantic, projects[0].Confidence["linking"].Source)
}

func TestEnrichSkillTimeline(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) }

	skills := []types.Skill{
		{Name: "Go", Confidence: types.NewConfidence(0.75, types.SourceExtraction)},
		{Name: "Python", Confidence: types.NewConfidence(0.75, types.SourceExtraction)},
		{Name: "Rust", Confidence: types.NewConfidence(0.75, types.SourceExtraction)},
	}
	experiences := []types.Experience{
		{ // 在职经历以注入时钟收尾：2021..2024 = 4年
			StartDate:    types.NewFlexDate(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
			IsCurrent:    true,
			Technologies: []string{"go"},
		},
		{ // 跨段取最大值而非求和
			StartDate:    types.NewFlexDate(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:      types.NewFlexDate(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)),
			Technologies: []string{"go", "python"},
		},
	}

	EnrichSkillTimeline(skills, experiences, DefaultOntology(), now)

	// go: max(2024-2021+1, 2016-2015+1) = 4
	assert.Equal(t, 4.0, skills[0].Years)
	assert.Equal(t, types.SourceTemporal, skills[0].Confidence.Source)
	assert.Equal(t, 0.80, skills[0].Confidence.Value)

	assert.Equal(t, 2.0, skills[1].Years)

	// 时间线上未出现的技能保持原置信度
	assert.Equal(t, 0.0, skills[2].Years)
	assert.Equal(t, types.SourceExtraction, skills[2].Confidence.Source)
}
