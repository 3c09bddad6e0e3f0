package parser

import (
	"cv-agent-go/internal/types"
)

// OverallConfidence 汇总各分节的置信度
// personal_info: 姓名识别成功0.95否则0.30
// contact: 各联系字段置信度均值，无字段时0.50
// experience: 各条经历内部均值的再平均，无经历时0.0
// skills: 各技能置信度均值，无技能时0.0
func OverallConfidence(name string, contact types.ContactInfo, experience []types.Experience, skills []types.Skill) map[string]float64 {
	scores := map[string]float64{
		"personal_info": 0.30,
		"contact":       0.50,
		"experience":    0.0,
		"skills":        0.0,
	}

	if name != "Unknown" {
		scores["personal_info"] = 0.95
	}

	if len(contact.Confidence) > 0 {
		sum := 0.0
		for _, c := range contact.Confidence {
			sum += c.Value
		}
		scores["contact"] = sum / float64(len(contact.Confidence))
	}

	if len(experience) > 0 {
		total := 0.0
		for _, exp := range experience {
			if len(exp.Confidence) == 0 {
				continue
			}
			sum := 0.0
			for _, c := range exp.Confidence {
				sum += c.Value
			}
			total += sum / float64(len(exp.Confidence))
		}
		scores["experience"] = total / float64(len(experience))
	}

	if len(skills) > 0 {
		sum := 0.0
		for _, s := range skills {
			sum += s.Confidence.Value
		}
		scores["skills"] = sum / float64(len(skills))
	}

	return scores
}
