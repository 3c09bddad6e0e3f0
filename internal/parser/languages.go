package parser

import (
	"regexp"
	"strings"

	"cv-agent-go/internal/types"
)

var (
	// "English (Fluent)" 形式的语言能力声明
	langRe = regexp.MustCompile(`([A-Za-z]+)\s*\((\w+)\)`)

	hobbyBulletRe = regexp.MustCompile(`[•\-]\s*([A-Za-z\s]+)`)
	hobbyPhraseRe = regexp.MustCompile(`[A-Z][a-z]+(\s+[A-Z][a-z]+)*`)
)

// ExtractLanguages 提取语言能力
// ISO代码取名称前两个字符的近似值，不做查表
func ExtractLanguages(sectionText string) []types.Language {
	var languages []types.Language
	for _, m := range langRe.FindAllStringSubmatch(sectionText, -1) {
		name := titleWord(m[1])
		iso := strings.ToLower(m[1])
		if len(iso) > 2 {
			iso = iso[:2]
		}
		languages = append(languages, types.Language{
			Name:    name,
			Level:   m[2],
			ISOCode: iso,
		})
	}
	return languages
}

// ExtractHobbies 提取兴趣爱好
// 依次尝试逗号分隔、列表符号、大写短语三种形态，过短的条目丢弃
func ExtractHobbies(sectionText string) []string {
	var raw []string
	switch {
	case strings.Contains(sectionText, ","):
		raw = strings.Split(sectionText, ",")
	case strings.Contains(sectionText, "•") || strings.Contains(sectionText, "-"):
		for _, m := range hobbyBulletRe.FindAllStringSubmatch(sectionText, -1) {
			raw = append(raw, m[1])
		}
	default:
		raw = hobbyPhraseRe.FindAllString(sectionText, -1)
	}

	var hobbies []string
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if len(h) > 3 {
			hobbies = append(hobbies, h)
		}
	}
	return hobbies
}
