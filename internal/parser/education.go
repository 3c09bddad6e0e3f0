package parser

import (
	"regexp"
	"strconv"
	"strings"

	"cv-agent-go/internal/types"
)

const maxEducationEntries = 5

// 上下文窗口半径，以学位命中位置为中心向两侧取字符
const educationContextRadius = 100

var (
	// 学位模式按顺序求值，覆盖正式学位名与常见缩写
	degreePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(Ph\.?D\.?|Doctorate)\b`),
		regexp.MustCompile(`(?i)\b(M\.?S\.?c?\.?|Master(?:'s)?|MBA)\b`),
		regexp.MustCompile(`(?i)\b(B\.?S\.?c?\.?|Bachelor(?:'s)?|B\.?A\.?|B\.?Tech)\b`),
		regexp.MustCompile(`(?i)\b(Associate|Diploma)\b`),
	}

	institutionRe = regexp.MustCompile(`([A-Z][A-Za-z\s&.]{3,50}?(?:University|College|Institute|School))`)
	eduYearRe     = regexp.MustCompile(`(19|20)\d{2}`)

	// 专业模式："in Computer Science from ..." 或 "of Engineering, ..."
	fieldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`in\s+([A-Z][A-Za-z\s]{3,40}?)(\s+from|\s+,|\s+-|\s+\|)`),
		regexp.MustCompile(`of\s+([A-Z][A-Za-z\s]{3,40}?)(\s+from|\s+,|\s+-|\s+\|)`),
	}
)

// ExtractEducation 提取教育经历
// 每个学位命中取前后各100字符的上下文窗口提取院校、年份、专业，
// 按(学位,院校)去重，最多保留5条
func ExtractEducation(sectionText string) []types.Education {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	var entries []types.Education
	seen := make(map[[2]string]bool)

	for _, re := range degreePatterns {
		for _, loc := range re.FindAllStringIndex(sectionText, -1) {
			start := loc[0] - educationContextRadius
			if start < 0 {
				start = 0
			}
			end := loc[1] + educationContextRadius
			if end > len(sectionText) {
				end = len(sectionText)
			}
			context := sectionText[start:end]

			institution := "Unknown"
			instConfidence := 0.5
			if m := institutionRe.FindStringSubmatch(context); m != nil {
				institution = strings.TrimRight(strings.TrimSpace(m[1]), ",.")
				instConfidence = 0.90
			}

			year := "Unknown"
			if m := eduYearRe.FindString(context); m != "" {
				year = m
			}

			field := ""
			for _, fp := range fieldPatterns {
				if m := fp.FindStringSubmatch(context); m != nil {
					field = strings.TrimSpace(m[1])
					break
				}
			}

			degreeType := NormalizeDegree(sectionText[loc[0]:loc[1]])
			degree := degreeType + " Degree"
			if field != "" {
				degree = degreeType + " " + field
			}

			key := [2]string{degree, institution}
			if seen[key] {
				continue
			}
			seen[key] = true

			entries = append(entries, types.Education{
				Institution:  institution,
				Degree:       degree,
				FieldOfStudy: field,
				StartDate:    inferStartYear(year),
				EndDate:      year,
				Confidence: map[string]types.ConfidenceScore{
					"institution": types.NewConfidence(instConfidence, types.SourcePattern),
					"dates":       types.NewConfidence(eduDateConfidence(year), types.SourceDateParser),
				},
			})

			if len(entries) >= maxEducationEntries {
				return entries
			}
		}
	}

	return entries
}

// inferStartYear 以典型四年制学位推断入学年份
func inferStartYear(endYear string) string {
	y, err := strconv.Atoi(endYear)
	if err != nil {
		return "Unknown"
	}
	return strconv.Itoa(y - 4)
}

func eduDateConfidence(year string) float64 {
	if year == "Unknown" {
		return 0.5
	}
	return 0.80
}
