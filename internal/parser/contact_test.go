package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	// 前5行内的标准姓名
	name := ExtractName("John Smith\nBerlin, Germany\njohn@acme.io")
	assert.Equal(t, "John Smith", name)

	// 三个单词的姓名同样接受
	name = ExtractName("Maria Del Carmen\nMadrid")
	assert.Equal(t, "Maria Del Carmen", name)

	// 超过4个单词的命中视为句子而非姓名
	name = ExtractName("Building Scalable Systems For Global Enterprises Daily\nqualified lead")
	assert.Equal(t, "Unknown", name)

	// 姓名出现在第5行之后时不再扫描
	name = ExtractName("line1\nline2\nline3\nline4\nline5\nJohn Smith")
	assert.Equal(t, "Unknown", name)
}

func TestExtractEmail(t *testing.T) {
	// 占位符域名被跳过，取后面的真实邮箱
	email := ExtractEmail("contact me at jane@example.com or jane.doe@acme.io")
	assert.Equal(t, "jane.doe@acme.io", email)

	// 全部是占位符时返回首个命中
	email = ExtractEmail("demo: a@example.com b@test.org")
	assert.Equal(t, "a@example.com", email)

	// 无邮箱
	assert.Equal(t, "", ExtractEmail("no contact info here"))
}

func TestExtractPhone(t *testing.T) {
	// 标准国际格式
	phone := ExtractPhone("Phone: +49 170 1234567 available weekdays")
	assert.NotEmpty(t, phone)

	// 年份区间不会被误认成电话
	phone = ExtractPhone("Engineering Manager 2019-2023 and 2015-2018")
	assert.Equal(t, "", phone)

	// 不足10位数字的片段被拒绝
	phone = ExtractPhone("ext. 123-4567")
	assert.Equal(t, "", phone)
}

func TestExtractTitle(t *testing.T) {
	// 可识别头衔按词首大写归一
	assert.Equal(t, "Engineering Manager", ExtractTitle("Senior ENGINEERING MANAGER at Acme"))
	assert.Equal(t, "Solution Architect", ExtractTitle("works as solution architect"))

	// 未命中任何头衔模式时退回通用值
	assert.Equal(t, "Professional", ExtractTitle("Backend Developer at Acme"))
}

func TestExtractContactInfo(t *testing.T) {
	// 准备包含全部联系方式的文本
	text := "Jane Doe\n" +
		"jane.doe@acme.io\n" +
		"+49 170 123 4567\n" +
		"Address: Friedrichstr 1, Berlin\n" +
		"linkedin.com/in/janedoe\n" +
		"github.com/janedoe\n"

	contact := ExtractContactInfo(text)

	assert.Equal(t, "jane.doe@acme.io", contact.Email)

	// 电话存储时去除内部空格
	assert.Equal(t, "+491701234567", contact.Phone)

	// 社交链接补全 https:// 前缀
	assert.Equal(t, "https://linkedin.com/in/janedoe", contact.LinkedIn)
	assert.Equal(t, "https://github.com/janedoe", contact.GitHub)
	assert.Equal(t, "Friedrichstr 1, Berlin", contact.Location)

	// 每个提取成功的字段都有置信度标签
	assert.Equal(t, 0.95, contact.Confidence["email"].Value)
	assert.Equal(t, 0.90, contact.Confidence["phone"].Value)
	assert.Equal(t, 0.85, contact.Confidence["location"].Value)
}

func TestExtractSummary(t *testing.T) {
	// Profile 标题后的首段
	text := "Jane Doe\n\nProfile\nSeasoned engineer with a decade of\ndistributed systems work.\n\nExperience\n..."
	summary := ExtractSummary(text)
	assert.Contains(t, summary, "Seasoned engineer")
	// 内部空白折叠为单空格
	assert.NotContains(t, summary, "\n")

	// 无任何概述线索时为空
	assert.Equal(t, "", ExtractSummary("Skills\nGo, Python"))
}
