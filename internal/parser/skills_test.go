package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillExtract(t *testing.T) {
	extractor := NewSkillExtractor(DefaultOntology())

	skills := extractor.Extract("Python, Golang, AWS, Kubernetes and GraphQL2")

	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}

	// 本体命中用展示名且按字典序排序，缩写词保持全大写
	// GraphQL2 本体未收录但含数字，走启发式路径
	assert.Equal(t, []string{"AWS", "Go", "GraphQL2", "Kubernetes", "Python"}, names)

	for _, s := range skills {
		if s.Name == "GraphQL2" {
			assert.Equal(t, CategoryUnknown, s.Category)
		}
		if s.Name == "Python" {
			assert.Equal(t, CategoryProgramming, s.Category)
		}
		// 统一的基础置信度与熟练度标签
		assert.Equal(t, "expert", s.Proficiency)
		assert.Equal(t, 0.75, s.Confidence.Value)
	}
}

func TestSkillExtractStoplist(t *testing.T) {
	extractor := NewSkillExtractor(DefaultOntology())

	// 文档格式词被丢弃，空文本不产出
	skills := extractor.Extract("CV PDF DOCX")
	assert.Empty(t, skills)
	assert.Nil(t, extractor.Extract("  "))
}

func TestOntologyDisplayName(t *testing.T) {
	o := DefaultOntology()

	assert.Equal(t, "SQL", o.DisplayName("sql"))
	assert.Equal(t, "Python", o.DisplayName("python"))
	assert.Equal(t, "Next.js", o.DisplayName("next.js"))
}

func TestOntologyNormalizeCompany(t *testing.T) {
	o := DefaultOntology()

	assert.Equal(t, "SAP SE", o.NormalizeCompany("SAP"))
	assert.Equal(t, "Google", o.NormalizeCompany(" google "))

	// 未收录公司原样返回
	assert.Equal(t, "Acme Corp", o.NormalizeCompany("Acme Corp"))
}

func TestOntologyTechnologiesIn(t *testing.T) {
	o := DefaultOntology()

	// 别名归一为规范名并按字典序排序
	techs := o.TechnologiesIn("built with Golang and K8s on Postgres")
	assert.Equal(t, []string{"go", "kubernetes", "postgresql"}, techs)

	// 两字符以下的别名不参与子串扫描
	assert.Empty(t, o.TechnologiesIn("js everywhere"))
}
