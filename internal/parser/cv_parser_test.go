package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/types"
)

const sampleCV = `Jane Doe
jane.doe@acme.io
+49 170 123 4567
Address: Friedrichstr 1, Berlin
linkedin.com/in/janedoe

Profile
Engineering leader focused on resilient backend platforms.

Employment History
Engineering Manager at SAP, Berlin (June 2021-Present)
• Led a platform team of twelve engineers
• Reduced deployment time using Docker and Kubernetes

Senior Developer at Momox GmbH, Berlin (March 2017 - May 2021)
• Built order pipelines in Python
• Operated PostgreSQL clusters

Education
Master in Computer Science from transcripts archived over many years at Berlin Technical University, 2012

Skills
Python, Golang, Docker, Kubernetes, PostgreSQL

Languages
English (Fluent), German (Native)

Interests
Hiking, Chess, Photography
`

func newTestParser() *CVParser {
	return NewCVParser(Config{Now: fixedNow})
}

func TestCVParserParse(t *testing.T) {
	p := newTestParser()

	record := p.Parse(sampleCV, "")

	// 个人信息与联系方式
	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Equal(t, "Engineering Manager", record.Title)
	assert.Equal(t, "jane.doe@acme.io", record.Contact.Email)
	assert.Equal(t, "https://linkedin.com/in/janedoe", record.Contact.LinkedIn)
	assert.Contains(t, record.Summary, "Engineering leader")

	// 经历按开始日期降序
	assert.Len(t, record.Experience, 2)
	assert.Equal(t, "SAP SE", record.Experience[0].Company)
	assert.True(t, record.Experience[0].IsCurrent)
	assert.Equal(t, "momox GmbH", record.Experience[1].Company)

	// 经历年跨度累加：(2024-2021 + 2021-2017) = 7年
	assert.Equal(t, 7.0, record.YearsOfExperience)

	assert.Len(t, record.Education, 1)
	assert.Equal(t, "Berlin Technical University", record.Education[0].Institution)

	assert.NotEmpty(t, record.Skills)
	assert.Len(t, record.Languages, 2)
	assert.Equal(t, []string{"Hiking", "Chess", "Photography"}, record.Hobbies)

	// 元数据与置信度汇总
	assert.Equal(t, ParsingMethodRegex, record.Metadata.ParsingMethod)
	assert.Equal(t, ContentHash(sampleCV), record.Metadata.FileHash)
	assert.Equal(t, len(sampleCV), record.Metadata.TextLength)
	assert.Equal(t, 0.95, record.Confidence["personal_info"])
	assert.Greater(t, record.Confidence["experience"], 0.0)
	assert.Greater(t, record.Confidence["skills"], 0.0)
}

func TestCVParserDeterministic(t *testing.T) {
	p := newTestParser()

	// 相同输入必得相同输出
	a := p.Parse(sampleCV, "hash-a")
	b := p.Parse(sampleCV, "hash-a")
	assert.Equal(t, a, b)
}

func TestCVParserGarbageInput(t *testing.T) {
	p := newTestParser()

	// 无结构文本降级为默认值而非失败
	record := p.Parse("%%%% ???? !!!! 12", "")
	assert.Equal(t, "Unknown", record.FullName)
	assert.Equal(t, "Professional", record.Title)
	assert.Empty(t, record.Experience)
	assert.Equal(t, 0.30, record.Confidence["personal_info"])

	// 空文本同样不崩溃
	record = p.Parse("", "")
	assert.Equal(t, "Unknown", record.FullName)
}

func TestTotalYearsExperience(t *testing.T) {
	p := newTestParser()

	// 无经历条目时回落到文本中的显式声明，取最大值
	years := p.TotalYearsExperience(nil, "3 years in fintech and 10+ years of experience overall")
	assert.Equal(t, 10.0, years)

	// 超过50年的声明视为噪声
	years = p.TotalYearsExperience(nil, "99 years of experience")
	assert.Equal(t, 0.0, years)

	// 有效经历条目优先于显式声明
	exp := []types.Experience{{
		StartDate: types.NewFlexDate(fixedNow().AddDate(-2, 0, 0)),
		EndDate:   types.NewFlexDate(fixedNow()),
	}}
	years = p.TotalYearsExperience(exp, "10+ years of experience")
	assert.Equal(t, 2.0, years)
}
