package parser

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"time"

	"cv-agent-go/internal/types"
)

const maxExperienceEntries = 10

var (
	// 经历块头部："Title at Company, Location"，同时用作块切分锚点
	expHeaderRe = regexp.MustCompile(`(?P<title>[A-Z][a-zA-Z\s]+) at (?P<company>[A-Z][a-zA-Z\s.]+), (?P<location>[A-Za-z\s]+)`)
	expSplitRe  = regexp.MustCompile(`(?m)^[A-Z][a-zA-Z\s]+ at [A-Z][a-zA-Z\s.]+, [A-Za-z\s]+`)

	// 日期区间："June 2021-Present" 或 "March 2017 - May 2021"
	expDateRangeRe = regexp.MustCompile(`([A-Za-z]+\s+\d{4})\s*[-–]\s*([A-Za-z]+\s+\d{4}|Present)`)

	// 行首锚定，避免日期区间里的连字符被当成列表项
	bulletRe = regexp.MustCompile(`(?m)^\s*[•\-●]\s*(.+)`)
)

const rawExcerptLimit = 300

// ExperienceExtractor 从经历分节中切块并解析每段工作经历
type ExperienceExtractor struct {
	ontology *Ontology
	now      func() time.Time
}

func NewExperienceExtractor(ontology *Ontology, now func() time.Time) *ExperienceExtractor {
	if now == nil {
		now = time.Now
	}
	return &ExperienceExtractor{ontology: ontology, now: now}
}

// Extract 解析经历分节
// 按块头部行切分文本，无法识别头部的块直接跳过
// 结果按开始日期降序排列，无日期的条目排在最后
func (e *ExperienceExtractor) Extract(sectionText string) []types.Experience {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	var experiences []types.Experience
	for _, block := range splitBlocks(sectionText, expSplitRe) {
		exp, ok := e.parseBlock(block)
		if !ok {
			continue
		}
		experiences = append(experiences, exp)
		if len(experiences) >= maxExperienceEntries {
			break
		}
	}

	// 降序排序须稳定，保证同日期条目维持文档顺序
	sort.SliceStable(experiences, func(i, j int) bool {
		a, b := experiences[i].StartDate, experiences[j].StartDate
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Time.After(b.Time)
	})

	return experiences
}

func (e *ExperienceExtractor) parseBlock(block string) (types.Experience, bool) {
	header := expHeaderRe.FindStringSubmatch(block)
	if header == nil {
		return types.Experience{}, false
	}

	names := expHeaderRe.SubexpNames()
	parts := make(map[string]string, len(names))
	for i, name := range names {
		if name != "" && i < len(header) {
			parts[name] = strings.TrimSpace(header[i])
		}
	}

	title := parts["title"]
	company := e.ontology.NormalizeCompany(parts["company"])
	location := parts["location"]

	var startDate, endDate types.FlexDate
	isCurrent := false
	dateConfidence := 0.5
	if m := expDateRangeRe.FindStringSubmatch(block); m != nil {
		if t, ok := ParseMonthYear(m[1]); ok {
			startDate = types.NewFlexDate(t)
		}
		if strings.EqualFold(m[2], "present") {
			isCurrent = true
			endDate = types.PresentDate()
		} else if t, ok := ParseMonthYear(m[2]); ok {
			endDate = types.NewFlexDate(t)
		}
		dateConfidence = 0.85
	}

	durationMonths := 0
	if startDate.Valid {
		end := e.now()
		if endDate.Valid {
			end = endDate.Time
		}
		if isCurrent || endDate.Valid {
			// 平均月长 30.44 天，与日历月对齐
			durationMonths = int(end.Sub(startDate.Time).Hours() / 24 / 30.44)
		}
	}

	bullets := extractBullets(block)
	half := len(bullets) / 2
	responsibilities := bullets[:half]
	achievements := bullets[half:]

	technologies := e.ontology.TechnologiesIn(block)

	excerpt := block
	if len(excerpt) > rawExcerptLimit {
		excerpt = excerpt[:rawExcerptLimit]
	}

	return types.Experience{
		ID:               experienceID(company, title, startDate),
		Company:          company,
		Title:            title,
		Location:         location,
		StartDate:        startDate,
		EndDate:          endDate,
		IsCurrent:        isCurrent,
		DurationMonths:   durationMonths,
		Responsibilities: responsibilities,
		Achievements:     achievements,
		Technologies:     technologies,
		RawExcerpt:       strings.TrimSpace(excerpt),
		Confidence: map[string]types.ConfidenceScore{
			"company": types.NewConfidence(0.92, types.SourcePattern),
			"dates":   types.NewConfidence(dateConfidence, types.SourceDateParser),
		},
	}, true
}

// experienceID 对公司+头衔+开始日期做内容寻址，同一段经历重复解析得到同一ID
func experienceID(company, title string, start types.FlexDate) string {
	startKey := ""
	if start.Valid {
		startKey = start.Time.Format("2006-01")
	}
	sum := md5.Sum([]byte(company + title + startKey))
	return "exp_" + hex.EncodeToString(sum[:])[:8]
}

// splitBlocks 以头部模式的每个命中行为界切分文本
// 返回各块的完整内容（含头部行），首个命中之前的内容丢弃
func splitBlocks(text string, headerRe *regexp.Regexp) []string {
	locs := headerRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(text[loc[0]:end])
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func extractBullets(block string) []string {
	var bullets []string
	for _, m := range bulletRe.FindAllStringSubmatch(block, -1) {
		line := strings.TrimSpace(m[1])
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}
