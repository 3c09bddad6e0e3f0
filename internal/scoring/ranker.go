package scoring

import (
	"sort"

	"cv-agent-go/internal/types"
)

// RankedCandidate 排名结果中的一项
type RankedCandidate struct {
	ID       string               `json:"id"`
	FullName string               `json:"full_name"`
	Email    string               `json:"email"`
	Score    float64              `json:"score"`
	Details  types.ScoreBreakdown `json:"scoring_details"`
}

// RankInput 参与排名的候选人及其外部标识
type RankInput struct {
	ID     string
	Record *types.CandidateRecord
}

// Rank 对一批候选人按同一岗位打分并降序排列
// 排序稳定，同分候选人保持输入顺序
func (e *Engine) Rank(job *types.JobRequirements, candidates []RankInput) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		breakdown := e.Score(c.Record, job)
		ranked = append(ranked, RankedCandidate{
			ID:       c.ID,
			FullName: c.Record.FullName,
			Email:    c.Record.Contact.Email,
			Score:    breakdown.TotalScore,
			Details:  breakdown,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
