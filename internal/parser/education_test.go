package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEducation(t *testing.T) {
	// 学位、院校、年份、专业齐全的典型条目
	text := "Master in Computer Science from transcripts archived over many years at Berlin Technical University, 2012"
	entries := ExtractEducation(text)

	assert.Len(t, entries, 1)
	edu := entries[0]
	assert.Equal(t, "Berlin Technical University", edu.Institution)
	assert.Equal(t, "Master's Computer Science", edu.Degree)
	assert.Equal(t, "Computer Science", edu.FieldOfStudy)
	assert.Equal(t, "2012", edu.EndDate)
	// 按四年制推断入学年份
	assert.Equal(t, "2008", edu.StartDate)
	assert.Equal(t, 0.90, edu.Confidence["institution"].Value)
	assert.Equal(t, 0.80, edu.Confidence["dates"].Value)
}

func TestExtractEducationUnknownInstitution(t *testing.T) {
	// 无院校命中时占位为 Unknown 并降低置信度
	entries := ExtractEducation("holds a Bachelor degree")

	assert.Len(t, entries, 1)
	assert.Equal(t, "Unknown", entries[0].Institution)
	assert.Equal(t, "Unknown", entries[0].EndDate)
	assert.Equal(t, "Unknown", entries[0].StartDate)
	assert.Equal(t, 0.5, entries[0].Confidence["institution"].Value)
	assert.Equal(t, 0.5, entries[0].Confidence["dates"].Value)
}

func TestExtractEducationDedup(t *testing.T) {
	// 同一学位在同一院校的重复命中只保留一条
	text := "Bachelor from State University, 2010. Bachelor from State University, 2010."
	entries := ExtractEducation(text)
	assert.Len(t, entries, 1)
}

func TestExtractEducationCap(t *testing.T) {
	// 超过5条上限时提前截断
	var b strings.Builder
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}
	for _, n := range names {
		b.WriteString("PhD from " + n + " University" + strings.Repeat(" ", 200) + "\n")
	}
	entries := ExtractEducation(b.String())
	assert.Len(t, entries, 5)
}

func TestInferStartYear(t *testing.T) {
	assert.Equal(t, "2016", inferStartYear("2020"))
	assert.Equal(t, "Unknown", inferStartYear("Unknown"))
}
