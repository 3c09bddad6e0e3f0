package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/types"
)

func TestExtractLanguages(t *testing.T) {
	languages := ExtractLanguages("english (Fluent), German (Native)")

	assert.Equal(t, []types.Language{
		{Name: "English", Level: "Fluent", ISOCode: "en"},
		{Name: "German", Level: "Native", ISOCode: "ge"},
	}, languages)

	// 无括号声明时不产出
	assert.Empty(t, ExtractLanguages("English and German"))
}

func TestExtractHobbies(t *testing.T) {
	// 逗号分隔形态
	hobbies := ExtractHobbies("Hiking, Chess, Photography, ski")
	assert.Equal(t, []string{"Hiking", "Chess", "Photography"}, hobbies)

	// 列表符号形态
	hobbies = ExtractHobbies("• Mountain Biking\n• Chess Club")
	assert.Equal(t, []string{"Mountain Biking", "Chess Club"}, hobbies)

	// 大写短语形态
	hobbies = ExtractHobbies("Landscape Photography and Trail Running")
	assert.Contains(t, hobbies, "Landscape Photography")
	assert.Contains(t, hobbies, "Trail Running")
}
