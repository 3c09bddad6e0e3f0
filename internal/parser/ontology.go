package parser // 简历解析核心：分节、抽取、归一化与置信度标注

import (
	"sort"
	"strings"
)

// SkillEntry 技能本体中的一个条目
type SkillEntry struct {
	Canonical string   // 规范名（小写下划线形式）
	Category  string   // 固定类目
	Aliases   []string // 可识别的别名拼写（均为小写）
}

// Ontology 技能与公司名的固定映射表
// 在构造时注入流水线，构造后不可变，不依赖任何全局可变状态
type Ontology struct {
	skills   []SkillEntry
	byAlias  map[string]*SkillEntry
	acronyms map[string]bool   // 展示时保持全大写的缩写词
	company  map[string]string // 小写公司名 -> 规范公司名
}

// 技能类目常量
const (
	CategoryProgramming = "programming"
	CategoryFramework   = "framework"
	CategoryDatabase    = "database"
	CategoryCloud       = "cloud"
	CategoryDevOps      = "devops"
	CategoryMLFramework = "ml_framework"
	CategoryTool        = "tool"
	CategoryUnknown     = "unknown"
)

// defaultSkillEntries 内置技能本体
var defaultSkillEntries = []SkillEntry{
	{"python", CategoryProgramming, []string{"python", "py", "python3"}},
	{"java", CategoryProgramming, []string{"java", "java8", "java11", "java17"}},
	{"javascript", CategoryProgramming, []string{"javascript", "js", "node.js", "nodejs"}},
	{"typescript", CategoryProgramming, []string{"typescript", "ts"}},
	{"c++", CategoryProgramming, []string{"c++", "cpp"}},
	{"c#", CategoryProgramming, []string{"c#", "csharp"}},
	{"ruby", CategoryProgramming, []string{"ruby"}},
	{"php", CategoryProgramming, []string{"php"}},
	{"swift", CategoryProgramming, []string{"swift"}},
	{"kotlin", CategoryProgramming, []string{"kotlin"}},
	{"go", CategoryProgramming, []string{"golang"}},
	{"rust", CategoryProgramming, []string{"rust"}},
	{"scala", CategoryProgramming, []string{"scala"}},
	{"react", CategoryFramework, []string{"react", "reactjs", "react.js"}},
	{"angular", CategoryFramework, []string{"angular", "angularjs"}},
	{"vue", CategoryFramework, []string{"vue", "vuejs", "vue.js"}},
	{"spring", CategoryFramework, []string{"spring", "spring boot", "springboot"}},
	{"django", CategoryFramework, []string{"django"}},
	{"flask", CategoryFramework, []string{"flask"}},
	{"fastapi", CategoryFramework, []string{"fastapi", "fast api"}},
	{"express", CategoryFramework, []string{"express", "express.js"}},
	{"next.js", CategoryFramework, []string{"next.js", "nextjs"}},
	{"langchain", CategoryMLFramework, []string{"langchain", "lang chain"}},
	{"tensorflow", CategoryMLFramework, []string{"tensorflow"}},
	{"pytorch", CategoryMLFramework, []string{"pytorch", "torch"}},
	{"scikit-learn", CategoryMLFramework, []string{"scikit-learn", "sklearn"}},
	{"keras", CategoryMLFramework, []string{"keras"}},
	{"aws", CategoryCloud, []string{"aws", "amazon web services"}},
	{"azure", CategoryCloud, []string{"azure", "microsoft azure"}},
	{"gcp", CategoryCloud, []string{"gcp", "google cloud"}},
	{"docker", CategoryDevOps, []string{"docker"}},
	{"kubernetes", CategoryDevOps, []string{"kubernetes", "k8s"}},
	{"terraform", CategoryDevOps, []string{"terraform"}},
	{"ansible", CategoryDevOps, []string{"ansible"}},
	{"postgresql", CategoryDatabase, []string{"postgresql", "postgres"}},
	{"mysql", CategoryDatabase, []string{"mysql"}},
	{"mongodb", CategoryDatabase, []string{"mongodb", "mongo"}},
	{"redis", CategoryDatabase, []string{"redis"}},
	{"elasticsearch", CategoryDatabase, []string{"elasticsearch"}},
	{"git", CategoryTool, []string{"git", "github", "gitlab"}},
	{"jenkins", CategoryTool, []string{"jenkins"}},
	{"jira", CategoryTool, []string{"jira"}},
	{"sql", CategoryDatabase, []string{"sql"}},
	{"kafka", CategoryTool, []string{"kafka"}},
	{"rabbitmq", CategoryTool, []string{"rabbitmq"}},
}

// defaultCompanyMap 内置公司名归一化表
var defaultCompanyMap = map[string]string{
	"sap se":     "SAP SE",
	"sap":        "SAP SE",
	"momox gmbh": "momox GmbH",
	"auto1 gmbh": "Auto1 Group GmbH",
	"vodafone":   "Vodafone Group",
	"amazon":     "Amazon",
	"google":     "Google",
	"microsoft":  "Microsoft",
	"meta":       "Meta",
	"apple":      "Apple Inc.",
}

// defaultAcronyms 展示时保持全大写的技能名
var defaultAcronyms = map[string]bool{
	"sql": true, "html": true, "css": true, "xml": true, "json": true,
	"rest": true, "api": true, "aws": true, "gcp": true, "nlp": true,
	"ai": true, "ml": true, "php": true, "ci/cd": true,
}

// DefaultOntology 返回内置本体
func DefaultOntology() *Ontology {
	return NewOntology(defaultSkillEntries, defaultCompanyMap)
}

// NewOntology 由技能条目与公司映射构造本体
func NewOntology(entries []SkillEntry, companies map[string]string) *Ontology {
	o := &Ontology{
		skills:   entries,
		byAlias:  make(map[string]*SkillEntry),
		acronyms: defaultAcronyms,
		company:  companies,
	}
	for i := range o.skills {
		e := &o.skills[i]
		o.byAlias[e.Canonical] = e
		for _, a := range e.Aliases {
			o.byAlias[a] = e
		}
	}
	return o
}

// Entries 返回全部技能条目，调用方不得修改
func (o *Ontology) Entries() []SkillEntry {
	return o.skills
}

// Lookup 按别名（小写）查找技能条目
func (o *Ontology) Lookup(alias string) (*SkillEntry, bool) {
	e, ok := o.byAlias[strings.ToLower(strings.TrimSpace(alias))]
	return e, ok
}

// Category 返回规范名对应的类目，查不到则为 unknown
func (o *Ontology) Category(canonical string) string {
	if e, ok := o.byAlias[canonical]; ok {
		return e.Category
	}
	return CategoryUnknown
}

// DisplayName 规范名转展示名：缩写词全大写，其余按词首字母大写
func (o *Ontology) DisplayName(canonical string) string {
	if o.acronyms[canonical] {
		return strings.ToUpper(canonical)
	}
	words := strings.Fields(strings.ReplaceAll(canonical, "_", " "))
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// NormalizeCompany 公司名归一化：小写去空白后查表，未命中原样返回
func (o *Ontology) NormalizeCompany(name string) string {
	if mapped, ok := o.company[strings.ToLower(strings.TrimSpace(name))]; ok {
		return mapped
	}
	return name
}

// TechnologiesIn 扫描文本中出现的本体别名，返回排序去重后的规范名列表
func (o *Ontology) TechnologiesIn(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for i := range o.skills {
		e := &o.skills[i]
		for _, alias := range append([]string{e.Canonical}, e.Aliases...) {
			// 两字符以下的别名在子串扫描中误报率过高，仅用于精确查表
			if len(alias) < 3 {
				continue
			}
			if strings.Contains(lower, alias) {
				found[e.Canonical] = true
				break
			}
		}
	}
	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// titleWord 单词首字母大写，其余小写
func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
