package processor

import (
	"cv-agent-go/internal/types"
)

// ParsingMethodHybrid 规则解析与LLM覆盖合并后的方法标签
const ParsingMethodHybrid = "llm+regex"

// llmMergedOverallConfidence LLM字段生效后记录的整体置信度
const llmMergedOverallConfidence = 0.90

// MergeRecords 合并规则解析结果与LLM覆盖结果
// 逐字段取LLM的非空值覆盖规则值，空值保留规则结果
// 任一覆盖字段生效时把整体置信度提到LLM档位
func MergeRecords(base types.CandidateRecord, overlay *types.CandidateRecord) types.CandidateRecord {
	merged := base
	applied := false

	if overlay.FullName != "" && overlay.FullName != "Unknown" {
		merged.FullName = overlay.FullName
		applied = true
	}
	if overlay.Title != "" && overlay.Title != "Professional" {
		merged.Title = overlay.Title
		applied = true
	}
	if overlay.Summary != "" {
		merged.Summary = overlay.Summary
		applied = true
	}

	if overlay.Contact.Email != "" {
		merged.Contact.Email = overlay.Contact.Email
		applied = true
	}
	if overlay.Contact.Phone != "" {
		merged.Contact.Phone = overlay.Contact.Phone
		applied = true
	}
	if overlay.Contact.Location != "" {
		merged.Contact.Location = overlay.Contact.Location
		applied = true
	}
	if overlay.Contact.LinkedIn != "" {
		merged.Contact.LinkedIn = overlay.Contact.LinkedIn
		applied = true
	}
	if overlay.Contact.GitHub != "" {
		merged.Contact.GitHub = overlay.Contact.GitHub
		applied = true
	}

	if len(overlay.Experience) > 0 {
		merged.Experience = overlay.Experience
		applied = true
	}
	if len(overlay.Education) > 0 {
		merged.Education = overlay.Education
		applied = true
	}
	if len(overlay.Skills) > 0 {
		merged.Skills = overlay.Skills
		applied = true
	}
	if len(overlay.Projects) > 0 {
		merged.Projects = overlay.Projects
		applied = true
	}
	if len(overlay.Languages) > 0 {
		merged.Languages = overlay.Languages
		applied = true
	}
	if len(overlay.Hobbies) > 0 {
		merged.Hobbies = overlay.Hobbies
		applied = true
	}
	if overlay.YearsOfExperience > 0 {
		merged.YearsOfExperience = overlay.YearsOfExperience
		applied = true
	}

	merged.Metadata.ParsingMethod = ParsingMethodHybrid

	if applied {
		// 拷贝置信度映射，避免回写基底记录
		confidence := make(map[string]float64, len(base.Confidence)+1)
		for k, v := range base.Confidence {
			confidence[k] = v
		}
		confidence["overall"] = llmMergedOverallConfidence
		merged.Confidence = confidence
	}

	return merged
}
