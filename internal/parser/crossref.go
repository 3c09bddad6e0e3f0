package parser

import (
	"strings"
	"time"

	"cv-agent-go/internal/types"
)

// LinkProjectsToExperience 把项目关联到相关工作经历
// 关联条件：项目描述提及公司名，或项目与经历存在共同技术
// 有关联的项目置信度0.70，孤立项目0.30
func LinkProjectsToExperience(projects []types.Project, experience []types.Experience) {
	for i := range projects {
		p := &projects[i]
		descLower := strings.ToLower(p.Description)

		for _, exp := range experience {
			if strings.Contains(descLower, strings.ToLower(exp.Company)) || sharesTech(p.Technologies, exp.Technologies) {
				p.LinkedExperienceIDs = append(p.LinkedExperienceIDs, exp.ID)
			}
		}

		value := 0.30
		if len(p.LinkedExperienceIDs) > 0 {
			value = 0.70
		}
		if p.Confidence == nil {
			p.Confidence = make(map[string]types.ConfidenceScore)
		}
		p.Confidence["linking"] = types.NewConfidence(value, types.SourceSemantic)
	}
}

func sharesTech(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if set[t] {
			return true
		}
	}
	return false
}

// EnrichSkillTimeline 由经历时间线推断每项技能的使用年限
// 每段提及该技术的经历贡献 结束年-开始年+1 年，跨段取最大值而非求和，
// 在职经历以注入的当前时间收尾
func EnrichSkillTimeline(skills []types.Skill, experience []types.Experience, ontology *Ontology, now func() time.Time) {
	if now == nil {
		now = time.Now
	}

	skillYears := make(map[string]float64)

	for _, exp := range experience {
		if !exp.StartDate.Valid {
			continue
		}
		endYear := now().Year()
		if exp.EndDate.Valid {
			endYear = exp.EndDate.Time.Year()
		}
		years := float64(endYear - exp.StartDate.Time.Year() + 1)
		for _, tech := range exp.Technologies {
			if years > skillYears[tech] {
				skillYears[tech] = years
			}
		}
	}

	for i := range skills {
		s := &skills[i]
		// 经历中的技术是本体规范名，技能名是展示名，对齐后再查
		canonical := strings.ToLower(s.Name)
		if entry, ok := ontology.Lookup(canonical); ok {
			canonical = entry.Canonical
		}
		if years, ok := skillYears[canonical]; ok {
			s.Years = years
			s.Confidence = types.NewConfidence(0.80, types.SourceTemporal)
		}
	}
}
