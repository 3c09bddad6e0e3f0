package parser

import (
	"regexp"
	"strings"

	"cv-agent-go/internal/types"
)

var (
	nameRe  = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-zA-Z]+)+)`)
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// 电话模式按顺序尝试，先国际格式后北美格式
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
	}
	nonDigitRe = regexp.MustCompile(`\D`)

	locationRe = regexp.MustCompile(`(?i)Address:\s*(.+)`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w\-]+`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/[\w\-]+`)

	titleRe = regexp.MustCompile(`(?i)(engineering manager|solution architect|security expert.*?certified|ml.*?architect)`)

	summaryProfileRe = regexp.MustCompile(`(?s)Profile\s*\n\s*([A-Z].*?)(\n\n|\n#|Employment|Experience|$)`)
	summaryLeadRe    = regexp.MustCompile(`^\s*(Innovative[^\n]*?\.\s*)`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// 占位符域名片段，命中则视为示例邮箱而非真实联系方式
var placeholderEmailParts = []string{"example", "test", "sample", "domain"}

// ExtractName 在文档前 5 行内寻找 2 到 4 个首字母大写单词组成的姓名
// 未命中时返回 "Unknown"，由置信度层体现不确定性
func ExtractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		m := nameRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		if len(strings.Fields(m[1])) <= 4 {
			return m[1]
		}
	}
	return "Unknown"
}

// ExtractTitle 提取职业头衔，无法识别时退回通用的 "Professional"
func ExtractTitle(text string) string {
	if m := titleRe.FindString(text); m != "" {
		words := strings.Fields(strings.ToLower(m))
		for i, w := range words {
			words[i] = titleWord(w)
		}
		return strings.Join(words, " ")
	}
	return "Professional"
}

// ExtractSummary 提取职业概述：优先取 Profile 标题后的首段，
// 其次匹配典型概述开头的句子；结果内部空白折叠为单空格
func ExtractSummary(text string) string {
	if m := summaryProfileRe.FindStringSubmatch(text); m != nil {
		return multiSpaceRe.ReplaceAllString(strings.TrimSpace(m[1]), " ")
	}
	if m := summaryLeadRe.FindStringSubmatch(text); m != nil {
		return multiSpaceRe.ReplaceAllString(strings.TrimSpace(m[1]), " ")
	}
	return ""
}

// ExtractEmail 返回第一个非占位符邮箱；全部是占位符时返回首个命中
func ExtractEmail(text string) string {
	matches := emailRe.FindAllString(text, -1)
	for _, email := range matches {
		lower := strings.ToLower(email)
		placeholder := false
		for _, part := range placeholderEmailParts {
			if strings.Contains(lower, part) {
				placeholder = true
				break
			}
		}
		if !placeholder {
			return email
		}
	}
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// ExtractPhone 按模式顺序提取电话号码
// 要求至少 10 位数字，且排除以 19/20 开头的候选以避免误吞年份区间
func ExtractPhone(text string) string {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			digits := nonDigitRe.ReplaceAllString(m, "")
			if len(digits) >= 10 && !strings.HasPrefix(m, "19") && !strings.HasPrefix(m, "20") {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

// ExtractContactInfo 汇总全部联系方式并为每个字段打置信度标签
func ExtractContactInfo(text string) types.ContactInfo {
	contact := types.ContactInfo{
		Confidence: make(map[string]types.ConfidenceScore),
	}

	if email := ExtractEmail(text); email != "" {
		contact.Email = email
		contact.Confidence["email"] = types.NewConfidence(0.95, types.SourceRegex)
	}

	if phone := ExtractPhone(text); phone != "" {
		contact.Phone = strings.ReplaceAll(phone, " ", "")
		contact.Confidence["phone"] = types.NewConfidence(0.90, types.SourceRegex)
	}

	if m := locationRe.FindStringSubmatch(text); m != nil {
		contact.Location = strings.TrimSpace(m[1])
		contact.Confidence["location"] = types.NewConfidence(0.85, types.SourcePattern)
	}

	// 社交档案链接统一补全 https:// 前缀
	if m := linkedinRe.FindString(text); m != "" {
		contact.LinkedIn = "https://" + m
		contact.Confidence["linkedin"] = types.NewConfidence(0.95, types.SourceURLPattern)
	}
	if m := githubRe.FindString(text); m != "" {
		contact.GitHub = "https://" + m
		contact.Confidence["github"] = types.NewConfidence(0.95, types.SourceURLPattern)
	}

	return contact
}
