// Package scoring 实现确定性的六因子岗位匹配评分
// 相同输入必得相同输出，不依赖任何外部服务
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"cv-agent-go/internal/types"
)

// 六因子权重，总和为1
const (
	weightJobTitle        = 0.15
	weightJobDescription  = 0.15
	weightRequiredSkills  = 0.25
	weightPreferredSkills = 0.10
	weightYears           = 0.20
	weightEducation       = 0.15
)

// 经验年限比例的奖励上限，超出岗位要求50%以上不再加分
const yearsRatioCap = 1.5

// 标题相似度与描述相似度的提升系数
const (
	titleBoost       = 1.5
	descriptionBoost = 1.2
)

// 描述关键词的最小长度，过滤虚词
const minDescKeywordLen = 4

// Engine 岗位匹配评分引擎，无状态，并发安全
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Score 计算候选人对岗位的六因子加权评分
// 各因子先归一化为百分比，再按固定权重合成总分
func (e *Engine) Score(candidate *types.CandidateRecord, job *types.JobRequirements) types.ScoreBreakdown {
	candidateSkills := lowerSet(candidate.SkillNames())
	requiredSkills := lowerSet(job.RequiredSkills)
	preferredSkills := lowerSet(job.PreferredSkills)

	// 因子1：岗位名称相似度
	titleSim := e.titleSimilarity(candidate.Experience, job.Title)
	titlePct := titleSim * 100

	// 因子2：岗位描述相似度
	descSim := e.descriptionSimilarity(candidate, job.Description)
	descPct := descSim * 100

	// 因子3：必备技能覆盖率，无要求视为满分
	requiredMatched := intersect(candidateSkills, requiredSkills)
	requiredPct := 100.0
	if len(requiredSkills) > 0 {
		requiredPct = float64(len(requiredMatched)) / float64(len(requiredSkills)) * 100
	}

	// 因子4：加分技能覆盖率，无加分项时为0
	preferredMatched := intersect(candidateSkills, preferredSkills)
	preferredPct := 0.0
	if len(preferredSkills) > 0 {
		preferredPct = float64(len(preferredMatched)) / float64(len(preferredSkills)) * 100
	}

	// 因子5：经验年限，比例上限1.5但得分上限100
	// 岗位无年限要求时：有任何经验即满分，完全无经验取中位50
	yearsPct := 0.0
	if job.MinYearsExperience > 0 {
		ratio := math.Min(candidate.YearsOfExperience/job.MinYearsExperience, yearsRatioCap)
		yearsPct = math.Min(ratio*100, 100)
	} else if candidate.YearsOfExperience > 0 {
		yearsPct = 100
	} else {
		yearsPct = 50
	}

	// 因子6：学历，有任何教育经历得基础分50，学位与要求双向包含匹配得100
	educationPct := 0.0
	if len(candidate.Education) > 0 {
		educationPct = 50
		if job.RequiredEducation != "" {
			requiredLower := strings.ToLower(job.RequiredEducation)
			for _, edu := range candidate.Education {
				degreeLower := strings.ToLower(edu.Degree)
				if strings.Contains(degreeLower, requiredLower) || strings.Contains(requiredLower, degreeLower) {
					educationPct = 100
					break
				}
			}
		}
	}

	totalScore := titlePct*weightJobTitle +
		descPct*weightJobDescription +
		requiredPct*weightRequiredSkills +
		preferredPct*weightPreferredSkills +
		yearsPct*weightYears +
		educationPct*weightEducation

	matched, unmatched := splitMatched(job.RequiredSkills, candidateSkills)

	return types.ScoreBreakdown{
		JobTitleScore:        round1(titlePct),
		JobDescriptionScore:  round1(descPct),
		RequiredSkillsScore:  round1(requiredPct),
		PreferredSkillsScore: round1(preferredPct),
		YearsExperienceScore: round1(yearsPct),
		EducationScore:       round1(educationPct),
		TotalScore:           round2(totalScore),
		SkillsScore:          round1(requiredPct*0.7 + preferredPct*0.3),
		ExperienceScore:      round1(yearsPct),
		MatchedSkills:        matched,
		UnmatchedSkills:      unmatched,
		Breakdown: types.ScoreCounts{
			JobTitleMatch:          titleSim,
			JobDescriptionMatch:    descSim,
			RequiredSkillsMatched:  len(requiredMatched),
			RequiredSkillsTotal:    len(requiredSkills),
			PreferredSkillsMatched: len(preferredMatched),
			PreferredSkillsTotal:   len(preferredSkills),
			CandidateYears:         candidate.YearsOfExperience,
			RequiredYears:          job.MinYearsExperience,
			HasEducation:           len(candidate.Education) > 0,
		},
		Reasoning: reasoning(
			titlePct, descPct, requiredPct, preferredPct, yearsPct, educationPct,
			len(requiredMatched), len(requiredSkills),
			len(preferredMatched), len(preferredSkills),
			candidate.YearsOfExperience, job.MinYearsExperience,
		),
	}
}

// titleSimilarity 取候选人各段经历头衔与岗位名称的最大Jaccard相似度
// 乘以提升系数1.5后截断到1.0，因为头衔很短，原始Jaccard偏保守
func (e *Engine) titleSimilarity(experiences []types.Experience, jobTitle string) float64 {
	if len(experiences) == 0 || jobTitle == "" {
		return 0.0
	}

	jobWords := wordSet(strings.ToLower(jobTitle))

	maxSim := 0.0
	for _, exp := range experiences {
		expWords := wordSet(strings.ToLower(exp.Title))
		if len(expWords) == 0 {
			continue
		}
		inter := 0
		union := len(jobWords)
		for w := range expWords {
			if jobWords[w] {
				inter++
			} else {
				union++
			}
		}
		if union > 0 {
			sim := float64(inter) / float64(union)
			if sim > maxSim {
				maxSim = sim
			}
		}
	}

	return math.Min(maxSim*titleBoost, 1.0)
}

// descriptionSimilarity 统计岗位描述关键词在候选人画像文本中的命中比例
// 画像由技能名、经历头衔与原文片段拼接而成；无描述时取中性值0.5
func (e *Engine) descriptionSimilarity(candidate *types.CandidateRecord, jobDescription string) float64 {
	if jobDescription == "" {
		return 0.5
	}

	var parts []string
	parts = append(parts, candidate.SkillNames()...)
	for _, exp := range candidate.Experience {
		parts = append(parts, exp.Title, exp.RawExcerpt)
	}
	candidateText := strings.ToLower(strings.Join(parts, " "))

	keywords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(jobDescription)) {
		if len(w) >= minDescKeywordLen {
			keywords[w] = true
		}
	}
	if len(keywords) == 0 {
		return 0.5
	}

	matches := 0
	for kw := range keywords {
		if strings.Contains(candidateText, kw) {
			matches++
		}
	}

	return math.Min(float64(matches)/float64(len(keywords))*descriptionBoost, 1.0)
}

// reasoning 生成人类可读的评分解释，各部分以句点连接
func reasoning(titlePct, descPct, reqPct, prefPct, yearsPct, eduPct float64,
	reqMatched, reqTotal, prefMatched, prefTotal int,
	candYears, reqYears float64) string {

	parts := []string{
		fmt.Sprintf("Job title match: %.0f%%", titlePct),
		fmt.Sprintf("description match: %.0f%%", descPct),
	}

	if reqTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d required skills (%.0f%%)", reqMatched, reqTotal, reqPct))
	}
	if prefTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d preferred skills (%.0f%%)", prefMatched, prefTotal, prefPct))
	}

	if reqYears > 0 {
		parts = append(parts, fmt.Sprintf("%syrs experience (required: %syrs, %.0f%%)",
			formatYears(candYears), formatYears(reqYears), yearsPct))
	} else {
		parts = append(parts, fmt.Sprintf("%s years of experience", formatYears(candYears)))
	}

	parts = append(parts, fmt.Sprintf("education: %.0f%%", eduPct))

	return strings.Join(parts, ". ") + "."
}

// formatYears 年限格式化：整数值带 .0 后缀，其余按最短十进制表示
func formatYears(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = true
	}
	return set
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func intersect(a, b map[string]bool) []string {
	var out []string
	for s := range a {
		if b[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// splitMatched 把必备技能按候选人是否具备切成两组，保持岗位声明顺序
func splitMatched(required []string, candidateSkills map[string]bool) (matched, unmatched []string) {
	matched = []string{}
	unmatched = []string{}
	for _, s := range required {
		if candidateSkills[strings.ToLower(s)] {
			matched = append(matched, s)
		} else {
			unmatched = append(unmatched, s)
		}
	}
	return matched, unmatched
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
