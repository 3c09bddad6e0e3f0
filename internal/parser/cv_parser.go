package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"cv-agent-go/internal/types"
)

// ParsingMethodRegex 纯规则解析产出的方法标签
const ParsingMethodRegex = "regex_only"

// 文本中显式声明经验年限的表述，如 "10+ years of experience"
var explicitYearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(of\s+)?experience`),
	regexp.MustCompile(`(?i)experience[:\s]+(\d+)\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(in|as|of)`),
}

// 经验年限声明的合理性上限
const maxClaimedYears = 50

// Config CV解析器配置
type Config struct {
	Ontology *Ontology
	// Now 注入当前时间，保证 "Present" 区间与年限推断可复现
	Now    func() time.Time
	Logger zerolog.Logger
}

// CVParser 简历结构化解析流水线
// 清洗 -> 分节 -> 逐分节提取 -> 交叉引用 -> 置信度汇总
type CVParser struct {
	ontology   *Ontology
	now        func() time.Time
	logger     zerolog.Logger
	experience *ExperienceExtractor
	skills     *SkillExtractor
	projects   *ProjectExtractor
}

// NewCVParser 构造解析器，零值配置回落到内置本体与系统时钟
func NewCVParser(cfg Config) *CVParser {
	if cfg.Ontology == nil {
		cfg.Ontology = DefaultOntology()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CVParser{
		ontology:   cfg.Ontology,
		now:        cfg.Now,
		logger:     cfg.Logger,
		experience: NewExperienceExtractor(cfg.Ontology, cfg.Now),
		skills:     NewSkillExtractor(cfg.Ontology),
		projects:   NewProjectExtractor(cfg.Ontology),
	}
}

// Parse 解析整份简历文本
// 保证不失败：任何内部panic都被吸收并降级为全默认值记录，
// 字段级的提取失败只体现为对应字段的默认值与低置信度
func (p *CVParser) Parse(text, fileHash string) (record types.CandidateRecord) {
	start := p.now()
	if fileHash == "" {
		fileHash = ContentHash(text)
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("file_hash", fileHash).Msg("简历解析崩溃，降级为默认记录")
			record = p.defaultRecord(text, fileHash, start)
		}
	}()

	p.logger.Info().Str("file_hash", fileHash).Int("text_length", len(text)).Msg("开始解析简历")

	cleaned := CleanText(text)
	sections := DetectSections(cleaned)

	name := ExtractName(cleaned)
	contact := ExtractContactInfo(cleaned)
	summary := ExtractSummary(cleaned)

	experience := p.experience.Extract(SectionOrWhole(sections, SectionExperience, cleaned))
	education := ExtractEducation(SectionOrWhole(sections, SectionEducation, cleaned))
	skills := p.skills.Extract(SectionOrWhole(sections, SectionSkills, cleaned))
	projects := p.projects.Extract(sections[SectionProjects])
	languages := ExtractLanguages(sections[SectionLanguages])
	hobbies := ExtractHobbies(sections[SectionHobbies])

	LinkProjectsToExperience(projects, experience)
	EnrichSkillTimeline(skills, experience, p.ontology, p.now)

	record = types.CandidateRecord{
		FullName:          name,
		Title:             ExtractTitle(cleaned),
		Contact:           contact,
		Summary:           summary,
		Experience:        experience,
		Education:         education,
		Skills:            skills,
		Projects:          projects,
		Languages:         languages,
		Hobbies:           hobbies,
		YearsOfExperience: p.TotalYearsExperience(experience, cleaned),
		Metadata: types.Metadata{
			ParsedAt:      start,
			FileHash:      fileHash,
			ParsingMethod: ParsingMethodRegex,
			TextLength:    len(text),
		},
		Confidence: OverallConfidence(name, contact, experience, skills),
	}

	p.logger.Info().
		Str("file_hash", fileHash).
		Int("experience", len(experience)).
		Int("skills", len(skills)).
		Dur("elapsed", p.now().Sub(start)).
		Msg("简历解析完成")

	return record
}

// TotalYearsExperience 估算总经验年限
// 优先累加经历条目的年跨度；无可用条目时回落到文本中的显式声明，
// 超过50年的声明视为噪声忽略
func (p *CVParser) TotalYearsExperience(experience []types.Experience, text string) float64 {
	totalMonths := 0
	for _, exp := range experience {
		if !exp.StartDate.Valid {
			continue
		}
		endYear := p.now().Year()
		if exp.EndDate.Valid {
			endYear = exp.EndDate.Time.Year()
		}
		years := endYear - exp.StartDate.Time.Year()
		totalMonths += years * 12
	}
	if totalMonths > 0 {
		// 保留一位小数
		return float64(int(float64(totalMonths)/12*10+0.5)) / 10
	}

	maxYears := 0
	for _, re := range explicitYearsPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			years, err := strconv.Atoi(m[1])
			if err != nil || years > maxClaimedYears {
				continue
			}
			if years > maxYears {
				maxYears = years
			}
		}
	}
	return float64(maxYears)
}

// ContentHash 内容寻址哈希，用于去重与缓存键
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}

func (p *CVParser) defaultRecord(text, fileHash string, start time.Time) types.CandidateRecord {
	return types.CandidateRecord{
		FullName: "Unknown",
		Title:    "Professional",
		Contact:  types.ContactInfo{Confidence: map[string]types.ConfidenceScore{}},
		Metadata: types.Metadata{
			ParsedAt:      start,
			FileHash:      fileHash,
			ParsingMethod: ParsingMethodRegex,
			TextLength:    len(text),
		},
		Confidence: map[string]float64{
			"personal_info": 0.30,
			"contact":       0.50,
			"experience":    0.0,
			"skills":        0.0,
		},
	}
}
