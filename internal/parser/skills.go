package parser

import (
	"regexp"
	"sort"
	"strings"

	"cv-agent-go/internal/types"
)

// 首字母大写的候选技术词，限定长度避免吞掉整句
var techTermRe = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9+#.]{1,15}\b`)

// 文档格式词等常见非技能词
var skillStoplist = map[string]bool{
	"CV":   true,
	"PDF":  true,
	"DOCX": true,
}

// SkillExtractor 基于本体对照 + 大写词启发式提取技能
type SkillExtractor struct {
	ontology *Ontology
}

func NewSkillExtractor(ontology *Ontology) *SkillExtractor {
	return &SkillExtractor{ontology: ontology}
}

// Extract 提取技能列表
// 本体命中用规范名与类目；启发式命中（全大写或含数字的词）类目为unknown
// 结果按名称字典序排序并去重
func (s *SkillExtractor) Extract(sectionText string) []types.Skill {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	found := make(map[string]string) // 名称 -> 类目
	lower := strings.ToLower(sectionText)

	for _, entry := range s.ontology.Entries() {
		for _, alias := range entry.Aliases {
			if strings.Contains(lower, alias) {
				found[s.ontology.DisplayName(entry.Canonical)] = entry.Category
				break
			}
		}
	}

	for _, term := range techTermRe.FindAllString(sectionText, -1) {
		if skillStoplist[term] {
			continue
		}
		if !isTechLike(term) {
			continue
		}
		// 能归一到本体的词走本体路径，避免同一技能出现两种写法
		if entry, ok := s.ontology.Lookup(term); ok {
			found[s.ontology.DisplayName(entry.Canonical)] = entry.Category
			continue
		}
		if _, exists := found[term]; !exists {
			found[term] = CategoryUnknown
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	skills := make([]types.Skill, 0, len(names))
	for _, name := range names {
		skills = append(skills, types.Skill{
			Name:        name,
			Category:    found[name],
			Proficiency: "expert",
			Confidence:  types.NewConfidence(0.75, types.SourceExtraction),
		})
	}
	return skills
}

// isTechLike 全大写缩写或含数字的词才视为技术名词候选
func isTechLike(term string) bool {
	if term == strings.ToUpper(term) {
		return true
	}
	for _, c := range term {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}
