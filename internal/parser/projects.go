package parser

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"cv-agent-go/internal/types"
)

// 项目块太短说明只是残句，不值得建条目
const minProjectBlockLen = 20

var (
	// 项目块头部："Name – description" 的名称部分，破折号与连字符都接受
	projSplitRe = regexp.MustCompile(`(?m)^[A-Z][a-zA-Z\s]+[–-]`)
	projNameRe  = regexp.MustCompile(`^([A-Z][a-zA-Z0-9\s/]+?)(\s*[–-]\s*)(.*)`)
)

// metricRule 量化指标模式
type metricRule struct {
	re   *regexp.Regexp
	kind string
	unit string
}

var metricRules = []metricRule{
	{regexp.MustCompile(`(?i)(\d+)%\s*(latency|performance|speed)`), "latency_reduction", "%"},
	{regexp.MustCompile(`(?i)(\d+)M\+\s*users?`), "user_base", "M+"},
	{regexp.MustCompile(`(?i)(\d+)\s*engineers?`), "team_size", "engineers"},
	{regexp.MustCompile(`(?i)(\d+)%\s*uptime`), "uptime", "%"},
}

// ProjectExtractor 从项目分节中提取项目及其量化指标
type ProjectExtractor struct {
	ontology *Ontology
}

func NewProjectExtractor(ontology *Ontology) *ProjectExtractor {
	return &ProjectExtractor{ontology: ontology}
}

// Extract 按块头部切分并解析每个项目
// 头部无破折号时退化为取首行作为名称、描述为空
func (p *ProjectExtractor) Extract(sectionText string) []types.Project {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	var projects []types.Project
	for _, block := range splitBlocks(sectionText, projSplitRe) {
		if len(block) < minProjectBlockLen {
			continue
		}

		var name, description string
		if m := projNameRe.FindStringSubmatch(block); m != nil {
			name = strings.TrimSpace(m[1])
			description = strings.TrimSpace(m[3])
		} else {
			name = strings.TrimSpace(strings.SplitN(block, "\n", 2)[0])
		}
		if name == "" {
			continue
		}

		sum := md5.Sum([]byte(name))

		projects = append(projects, types.Project{
			ID:                  "proj_" + hex.EncodeToString(sum[:])[:8],
			Name:                name,
			Description:         description,
			Technologies:        p.ontology.TechnologiesIn(block),
			ImpactMetrics:       extractMetrics(block),
			LinkedExperienceIDs: []string{},
			Confidence: map[string]types.ConfidenceScore{
				"name":         types.NewConfidence(0.90, types.SourceHeader),
				"technologies": types.NewConfidence(0.75, types.SourceKeyword),
			},
		})
	}
	return projects
}

func extractMetrics(block string) []types.ImpactMetric {
	var metrics []types.ImpactMetric
	for _, rule := range metricRules {
		for _, m := range rule.re.FindAllStringSubmatch(block, -1) {
			value, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			metrics = append(metrics, types.ImpactMetric{
				Type:  rule.kind,
				Value: value,
				Unit:  rule.unit,
			})
		}
	}
	return metrics
}
