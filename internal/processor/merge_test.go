package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/types"
)

func TestMergeRecords(t *testing.T) {
	// 准备规则解析基底与LLM覆盖结果
	base := types.CandidateRecord{
		FullName: "Jane Doe",
		Title:    "Professional",
		Contact:  types.ContactInfo{Email: "jane@acme.io"},
		Skills:   []types.Skill{{Name: "Go"}},
		Metadata: types.Metadata{ParsingMethod: "regex_only", FileHash: "abc"},
	}
	overlay := &types.CandidateRecord{
		Title:             "Staff Engineer",
		Summary:           "led platform work",
		Contact:           types.ContactInfo{Phone: "+491701234567"},
		YearsOfExperience: 8,
	}

	merged := MergeRecords(base, overlay)

	// 非空覆盖值生效，空值保留基底
	assert.Equal(t, "Jane Doe", merged.FullName)
	assert.Equal(t, "Staff Engineer", merged.Title)
	assert.Equal(t, "led platform work", merged.Summary)
	assert.Equal(t, "jane@acme.io", merged.Contact.Email)
	assert.Equal(t, "+491701234567", merged.Contact.Phone)
	assert.Equal(t, []types.Skill{{Name: "Go"}}, merged.Skills)
	assert.Equal(t, 8.0, merged.YearsOfExperience)

	// 元数据以规则结果为基底，方法标签改为混合
	assert.Equal(t, "abc", merged.Metadata.FileHash)
	assert.Equal(t, ParsingMethodHybrid, merged.Metadata.ParsingMethod)
}

func TestMergeRecordsRaisesOverallConfidence(t *testing.T) {
	base := types.CandidateRecord{
		FullName:   "Jane Doe",
		Confidence: map[string]float64{"personal_info": 0.95},
	}

	// 1. 任一覆盖字段生效后整体置信度提到LLM档位
	merged := MergeRecords(base, &types.CandidateRecord{Summary: "led platform work"})
	assert.Equal(t, llmMergedOverallConfidence, merged.Confidence["overall"])
	assert.Equal(t, 0.95, merged.Confidence["personal_info"])

	// 2. 基底记录的置信度映射不被回写
	_, ok := base.Confidence["overall"]
	assert.False(t, ok)

	// 3. 覆盖结果全空时置信度保持基底原样
	merged = MergeRecords(base, &types.CandidateRecord{FullName: "Unknown"})
	_, ok = merged.Confidence["overall"]
	assert.False(t, ok)
}

func TestMergeRecordsSkipsSentinels(t *testing.T) {
	base := types.CandidateRecord{FullName: "Jane Doe", Title: "Engineering Manager"}

	// LLM返回的占位值不覆盖已有结果
	overlay := &types.CandidateRecord{FullName: "Unknown", Title: "Professional"}
	merged := MergeRecords(base, overlay)

	assert.Equal(t, "Jane Doe", merged.FullName)
	assert.Equal(t, "Engineering Manager", merged.Title)
}
