package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cv-agent-go/internal/storage"
	"cv-agent-go/internal/types"
)

// CandidateHandler 候选人查询
type CandidateHandler struct {
	storage *storage.Storage
}

// NewCandidateHandler 创建候选人处理器
func NewCandidateHandler(st *storage.Storage) *CandidateHandler {
	return &CandidateHandler{storage: st}
}

// CandidateSummary 列表项，不含完整解析结果
type CandidateSummary struct {
	CandidateID       string  `json:"candidate_id"`
	FullName          string  `json:"full_name"`
	Title             string  `json:"title"`
	PrimaryEmail      string  `json:"primary_email"`
	Location          string  `json:"location"`
	YearsOfExperience float64 `json:"years_of_experience"`
}

// CandidateListResponse 分页列表响应
type CandidateListResponse struct {
	Total      int64              `json:"total"`
	Offset     int                `json:"offset"`
	Limit      int                `json:"limit"`
	Candidates []CandidateSummary `json:"candidates"`
}

// CandidateDetailResponse 候选人详情响应
type CandidateDetailResponse struct {
	CandidateID string                 `json:"candidate_id"`
	Record      *types.CandidateRecord `json:"record"`
}

// HandleListCandidates 分页列出候选人
func (h *CandidateHandler) HandleListCandidates(ctx context.Context, offset, limit int) (*CandidateListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	candidates, total, err := h.storage.MySQL.ListCandidates(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("查询候选人列表失败: %w", err)
	}

	summaries := make([]CandidateSummary, 0, len(candidates))
	for i := range candidates {
		summaries = append(summaries, CandidateSummary{
			CandidateID:       candidates[i].CandidateID,
			FullName:          candidates[i].FullName,
			Title:             candidates[i].Title,
			PrimaryEmail:      candidates[i].PrimaryEmail,
			Location:          candidates[i].Location,
			YearsOfExperience: candidates[i].YearsOfExperience,
		})
	}

	return &CandidateListResponse{
		Total:      total,
		Offset:     offset,
		Limit:      limit,
		Candidates: summaries,
	}, nil
}

// HandleGetCandidate 获取候选人完整解析结果
func (h *CandidateHandler) HandleGetCandidate(ctx context.Context, candidateID string) (*CandidateDetailResponse, error) {
	candidate, err := h.storage.MySQL.GetCandidateByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("候选人不存在: %s", candidateID)
		}
		return nil, err
	}

	var record types.CandidateRecord
	if len(candidate.ParsedRecordJSON) > 0 {
		if err := json.Unmarshal(candidate.ParsedRecordJSON, &record); err != nil {
			return nil, fmt.Errorf("反序列化候选人记录失败: %w", err)
		}
	}

	return &CandidateDetailResponse{
		CandidateID: candidate.CandidateID,
		Record:      &record,
	}, nil
}
