package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedNow 固定当前时间，保证 Present 区间可复现
func fixedNow() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

const experienceSection = `Engineering Manager at SAP, Berlin (June 2021-Present)
• Led a platform team of twelve engineers
• Introduced trunk based development
• Reduced deployment time using Docker and Kubernetes
• Migrated services to AWS

Senior Developer at Momox GmbH, Berlin (March 2017 - May 2021)
• Built order pipelines in Python
• Operated PostgreSQL clusters
`

func TestExperienceExtract(t *testing.T) {
	extractor := NewExperienceExtractor(DefaultOntology(), fixedNow)

	experiences := extractor.Extract(experienceSection)
	assert.Len(t, experiences, 2)

	// 按开始日期降序：在职条目在前
	first := experiences[0]
	assert.Equal(t, "Engineering Manager", first.Title)
	assert.Equal(t, "SAP SE", first.Company) // 公司名经过归一化
	assert.Equal(t, "Berlin", first.Location)
	assert.True(t, first.IsCurrent)
	assert.True(t, first.StartDate.Valid)
	assert.Equal(t, 2021, first.StartDate.Year())
	assert.False(t, first.EndDate.Valid)
	assert.True(t, first.EndDate.Current)

	// 在职时长以注入时钟收尾：2021-06 到 2024-01 约31个月
	assert.Equal(t, 31, first.DurationMonths)

	// 要点前半为职责，后半为成就
	assert.Len(t, first.Responsibilities, 2)
	assert.Len(t, first.Achievements, 2)

	// 技术从本体识别并按规范名排序
	assert.Equal(t, []string{"aws", "docker", "kubernetes"}, first.Technologies)

	second := experiences[1]
	assert.Equal(t, "Senior Developer", second.Title)
	assert.Equal(t, "momox GmbH", second.Company)
	assert.False(t, second.IsCurrent)
	assert.Equal(t, 2017, second.StartDate.Year())
	assert.Equal(t, 2021, second.EndDate.Year())
	assert.Equal(t, 0.85, second.Confidence["dates"].Value)
}

func TestExtractBulletsLineAnchored(t *testing.T) {
	block := `Engineering Manager at SAP, Berlin (June 2021-Present)
• Led a platform team of twelve engineers
- Introduced trunk based development
Shipped features from March 2017 - May 2021 without incident
`

	bullets := extractBullets(block)

	// 1. 只收集行首列表符号的行，日期区间里的连字符不产生条目
	assert.Equal(t, []string{
		"Led a platform team of twelve engineers",
		"Introduced trunk based development",
	}, bullets)
}

func TestExperienceExtractIDStable(t *testing.T) {
	extractor := NewExperienceExtractor(DefaultOntology(), fixedNow)

	// 同一文本重复解析产出相同ID
	a := extractor.Extract(experienceSection)
	b := extractor.Extract(experienceSection)
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.Contains(t, a[0].ID, "exp_")
	assert.Len(t, a[0].ID, 12)
}

func TestExperienceExtractSkipsHeaderless(t *testing.T) {
	extractor := NewExperienceExtractor(DefaultOntology(), fixedNow)

	// 无法识别块头部的文本不产出条目
	assert.Nil(t, extractor.Extract("worked on various backend systems since 2015"))
	assert.Nil(t, extractor.Extract("   "))
}

func TestExperienceRawExcerptBounded(t *testing.T) {
	extractor := NewExperienceExtractor(DefaultOntology(), fixedNow)

	block := "Engineer at Acme Corp, Berlin\n"
	for i := 0; i < 40; i++ {
		block += "• Shipped a long list of incremental improvements\n"
	}
	experiences := extractor.Extract(block)
	assert.Len(t, experiences, 1)
	assert.LessOrEqual(t, len(experiences[0].RawExcerpt), 300)
}
