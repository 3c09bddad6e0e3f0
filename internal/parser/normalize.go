package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearRe      = regexp.MustCompile(`(19|20)\d{2}`)
	monthYearRe = regexp.MustCompile(`(?i)([A-Za-z]+)\s+(\d{4})`)

	crlfRe       = regexp.MustCompile(`\r\n?`)
	trailingWSRe = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// ocrRepairs 已知OCR识别错误的固定替换表
var ocrRepairs = strings.NewReplacer(
	"0ver", "over",
	"15years", "15 years",
	"securi ty", "security",
	"ML&AI", "ML & AI",
	"CICD", "CI/CD",
	"Cl/CD", "CI/CD",
)

// CleanText 解析前的文本清洗
// 统一换行符、修复已知OCR错误、去除不间断空格与行尾空白、压缩连续空行
func CleanText(text string) string {
	text = crlfRe.ReplaceAllString(text, "\n")
	text = ocrRepairs.Replace(text)
	text = strings.ReplaceAll(text, " ", " ")
	text = trailingWSRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// 月份名到月序号的映射，同时接受全称与三字母缩写
var monthIndex = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseMonthYear 解析 "June 2021" 这类日期，月份无法识别时返回零值与false
func ParseMonthYear(s string) (time.Time, bool) {
	m := monthYearRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthIndex[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

// NormalizeDate 把任意日期片段规整为 "YYYY-MM"
// 降级链：月份+年份 -> 裸年份补 "-01" -> 原样返回
func NormalizeDate(dateStr string) string {
	if t, ok := ParseMonthYear(dateStr); ok {
		return t.Format("2006-01")
	}
	if year := yearRe.FindString(dateStr); year != "" {
		return year + "-01"
	}
	return dateStr
}

// NormalizeDegree 把学位描述归一为标准等级
// 按博士、硕士、学士、副学士、文凭的优先级顺序判定
func NormalizeDegree(degreeText string) string {
	lower := strings.ToLower(degreeText)

	containsAny := func(parts ...string) bool {
		for _, p := range parts {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("phd", "ph.d", "doctorate"):
		return "PhD"
	case containsAny("master", "m.s", "msc", "mba"):
		return "Master's"
	case containsAny("bachelor", "b.s", "bsc", "b.a", "b.tech"):
		return "Bachelor's"
	case containsAny("associate", "a.s"):
		return "Associate"
	case containsAny("diploma"):
		return "Diploma"
	}

	words := strings.Fields(lower)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}
