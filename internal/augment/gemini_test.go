package augment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRecordJSON(t *testing.T) {
	// 容忍markdown围栏与说明文字
	text := "Here is the extraction:\n```json\n{\"full_name\": \"Jane Doe\", \"title\": \"Staff Engineer\", \"years_of_experience\": 8}\n```\nDone."

	record, err := ExtractRecordJSON(text)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Equal(t, "Staff Engineer", record.Title)
	assert.Equal(t, 8.0, record.YearsOfExperience)
}

func TestExtractRecordJSONNested(t *testing.T) {
	// 嵌套对象：首个左花括号到最后一个右花括号
	text := `{"full_name": "Jane Doe", "contact": {"email": "jane@acme.io"}}`

	record, err := ExtractRecordJSON(text)
	assert.NoError(t, err)
	assert.Equal(t, "jane@acme.io", record.Contact.Email)
}

func TestExtractRecordJSONErrors(t *testing.T) {
	// 回复中没有JSON对象
	_, err := ExtractRecordJSON("sorry, I cannot parse this resume")
	assert.ErrorIs(t, err, ErrSchemaViolation)

	// 定位到的片段不是合法JSON
	_, err = ExtractRecordJSON("{not valid json}")
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestNewGeminiAugmenterRequiresKey(t *testing.T) {
	_, err := NewGeminiAugmenter(context.Background(), Config{})
	assert.Error(t, err)
}
