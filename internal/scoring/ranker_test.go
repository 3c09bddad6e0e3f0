package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/types"
)

func TestRank(t *testing.T) {
	engine := NewEngine()

	strong := testCandidate()
	weak := &types.CandidateRecord{
		FullName: "John Roe",
		Contact:  types.ContactInfo{Email: "john@acme.io"},
		Skills:   []types.Skill{{Name: "Excel"}},
	}

	job := &types.JobRequirements{
		Title:              "Backend Engineer",
		RequiredSkills:     []string{"Go", "Docker"},
		MinYearsExperience: 3,
	}

	ranked := engine.Rank(job, []RankInput{
		{ID: "cand-weak", Record: weak},
		{ID: "cand-strong", Record: strong},
	})

	// 按总分降序
	assert.Len(t, ranked, 2)
	assert.Equal(t, "cand-strong", ranked[0].ID)
	assert.Equal(t, "Jane Doe", ranked[0].FullName)
	assert.Equal(t, "jane@acme.io", ranked[0].Email)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)

	// 明细随结果返回
	assert.Equal(t, ranked[0].Score, ranked[0].Details.TotalScore)
}

func TestRankStableForTies(t *testing.T) {
	engine := NewEngine()

	// 两个完全相同的候选人同分，保持输入顺序
	a := testCandidate()
	b := testCandidate()
	ranked := engine.Rank(&types.JobRequirements{RequiredSkills: []string{"Go"}}, []RankInput{
		{ID: "first", Record: a},
		{ID: "second", Record: b},
	})

	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
}

func TestRankEmpty(t *testing.T) {
	engine := NewEngine()
	ranked := engine.Rank(&types.JobRequirements{}, nil)
	assert.Empty(t, ranked)
}
