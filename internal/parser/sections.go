package parser

import (
	"regexp"
	"strings"
)

// 标准分节名
const (
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
	SectionLanguages  = "languages"
	SectionHobbies    = "hobbies"
)

// sectionRule 分节标题规则：名称 + 行首匹配的标题模式
type sectionRule struct {
	name    string
	pattern *regexp.Regexp
}

// sectionRules 按固定顺序求值；同一行命中多个模式时，表中靠前者胜出
// 这是刻意设计的稳定优先级，而非不确定行为
var sectionRules = []sectionRule{
	{SectionExperience, regexp.MustCompile(`(?i)^(employment history|experience|work history|professional experience)`)},
	{SectionEducation, regexp.MustCompile(`(?i)^(education|academic background|qualifications)`)},
	{SectionSkills, regexp.MustCompile(`(?i)^(skills|technical skills|technologies|expertise|core competencies)`)},
	{SectionProjects, regexp.MustCompile(`(?i)^(projects|notable projects|key projects)`)},
	{SectionLanguages, regexp.MustCompile(`(?i)^(languages|language skills)`)},
	{SectionHobbies, regexp.MustCompile(`(?i)^(hobbies|interests|activities)`)},
}

// DetectSections 逐行扫描文本，按标题模式切分为命名分节
// 未进入任何分节前的行（序言）被丢弃；缺失的分节在结果中不出现，
// 调用方须按约定回退到全文扫描
func DetectSections(text string) map[string]string {
	sections := make(map[string]string)

	var current string
	var buf []string

	flush := func() {
		if current != "" && len(buf) > 0 {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		matched := ""
		for _, rule := range sectionRules {
			if rule.pattern.MatchString(trimmed) {
				matched = rule.name
				break
			}
		}

		if matched != "" {
			flush()
			current = matched
			buf = buf[:0]
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}

// SectionOrWhole 返回指定分节内容；分节缺失时降级为整份文档
func SectionOrWhole(sections map[string]string, name, whole string) string {
	if body, ok := sections[name]; ok && body != "" {
		return body
	}
	return whole
}
