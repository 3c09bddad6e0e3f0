package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cv-agent-go/internal/logger"
	"cv-agent-go/internal/scoring"
	"cv-agent-go/internal/storage"
	"cv-agent-go/internal/storage/models"
	"cv-agent-go/internal/types"
)

// JobHandler 岗位管理与候选人匹配排名
type JobHandler struct {
	storage *storage.Storage
	engine  *scoring.Engine
}

// NewJobHandler 创建岗位处理器
func NewJobHandler(st *storage.Storage, engine *scoring.Engine) *JobHandler {
	return &JobHandler{
		storage: st,
		engine:  engine,
	}
}

// CreateJobRequest 创建岗位请求
type CreateJobRequest struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Requirements *types.JobRequirements `json:"requirements"`
}

// CreateJobResponse 创建岗位响应
type CreateJobResponse struct {
	JobID string `json:"job_id"`
}

// RankRequest 候选人排名请求
// 岗位要求二选一：job_id引用已创建岗位，或requirements内联提供
// candidate_ids为空时对全部候选人排名
type RankRequest struct {
	JobID        string                 `json:"job_id,omitempty"`
	Requirements *types.JobRequirements `json:"requirements,omitempty"`
	CandidateIDs []string               `json:"candidate_ids,omitempty"`
	Limit        int                    `json:"limit,omitempty"`
}

// RankResponse 候选人排名响应
type RankResponse struct {
	JobID      string                    `json:"job_id,omitempty"`
	Total      int                       `json:"total"`
	Candidates []scoring.RankedCandidate `json:"candidates"`
}

// HandleCreateJob 创建岗位并缓存岗位描述文本
func (h *JobHandler) HandleCreateJob(ctx context.Context, req *CreateJobRequest) (*CreateJobResponse, error) {
	if req == nil || req.Title == "" {
		return nil, fmt.Errorf("岗位标题不能为空")
	}

	requirements := req.Requirements
	if requirements == nil {
		requirements = &types.JobRequirements{
			Title:       req.Title,
			Description: req.Description,
		}
	}
	if requirements.Title == "" {
		requirements.Title = req.Title
	}
	if requirements.Description == "" {
		requirements.Description = req.Description
	}

	job := &models.Job{
		JobTitle:    req.Title,
		Description: req.Description,
	}
	if err := h.storage.MySQL.SaveJob(ctx, job, requirements); err != nil {
		return nil, fmt.Errorf("保存岗位失败: %w", err)
	}

	// JD文本缓存失败不影响创建
	if h.storage.Redis != nil && req.Description != "" {
		if err := h.storage.Redis.SetJobDescription(ctx, job.JobID, req.Description); err != nil {
			logger.Warn().Err(err).Str("job_id", job.JobID).Msg("缓存岗位描述失败")
		}
	}

	return &CreateJobResponse{JobID: job.JobID}, nil
}

// HandleGetJob 获取岗位详情
func (h *JobHandler) HandleGetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("岗位不存在: %s", jobID)
		}
		return nil, err
	}
	return job, nil
}

// HandleRankCandidates 对候选人按岗位要求打分排名
// 指定了job_id时评估结果同时落库
func (h *JobHandler) HandleRankCandidates(ctx context.Context, req *RankRequest) (*RankResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("请求不能为空")
	}

	requirements, err := h.resolveRequirements(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates, err := h.loadCandidates(ctx, req.CandidateIDs)
	if err != nil {
		return nil, err
	}

	inputs := make([]scoring.RankInput, 0, len(candidates))
	for i := range candidates {
		var record types.CandidateRecord
		if err := json.Unmarshal(candidates[i].ParsedRecordJSON, &record); err != nil {
			logger.Warn().
				Err(err).
				Str("candidate_id", candidates[i].CandidateID).
				Msg("反序列化候选人记录失败，跳过")
			continue
		}
		inputs = append(inputs, scoring.RankInput{
			ID:     candidates[i].CandidateID,
			Record: &record,
		})
	}

	ranked := h.engine.Rank(requirements, inputs)

	if req.JobID != "" {
		for i := range ranked {
			if err := h.storage.MySQL.SaveEvaluation(ctx, ranked[i].ID, req.JobID, &ranked[i].Details); err != nil {
				logger.Warn().
					Err(err).
					Str("candidate_id", ranked[i].ID).
					Str("job_id", req.JobID).
					Msg("保存匹配评估失败")
			}
		}
	}

	total := len(ranked)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	return &RankResponse{
		JobID:      req.JobID,
		Total:      total,
		Candidates: ranked,
	}, nil
}

// resolveRequirements 确定本次排名使用的岗位要求
func (h *JobHandler) resolveRequirements(ctx context.Context, req *RankRequest) (*types.JobRequirements, error) {
	if req.Requirements != nil {
		return req.Requirements, nil
	}
	if req.JobID == "" {
		return nil, fmt.Errorf("必须提供job_id或requirements")
	}

	job, err := h.storage.MySQL.GetJobByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("岗位不存在: %s", req.JobID)
		}
		return nil, fmt.Errorf("获取岗位失败: %w", err)
	}

	var requirements types.JobRequirements
	if len(job.RequirementsJSON) > 0 {
		if err := json.Unmarshal(job.RequirementsJSON, &requirements); err != nil {
			return nil, fmt.Errorf("反序列化岗位要求失败: %w", err)
		}
	}
	if requirements.Title == "" {
		requirements.Title = job.JobTitle
	}
	if requirements.Description == "" {
		requirements.Description = job.Description
	}
	return &requirements, nil
}

// loadCandidates 加载参与排名的候选人
func (h *JobHandler) loadCandidates(ctx context.Context, candidateIDs []string) ([]models.Candidate, error) {
	if len(candidateIDs) > 0 {
		candidates, err := h.storage.MySQL.GetCandidatesByIDs(ctx, candidateIDs)
		if err != nil {
			return nil, fmt.Errorf("加载候选人失败: %w", err)
		}
		return candidates, nil
	}

	// 未指定候选人时取全量
	candidates, _, err := h.storage.MySQL.ListCandidates(ctx, 0, maxRankCandidates)
	if err != nil {
		return nil, fmt.Errorf("加载候选人失败: %w", err)
	}
	return candidates, nil
}

// 全量排名时的候选人上限
const maxRankCandidates = 1000
