// Package models 定义持久化层的GORM模型
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Candidate 候选人主表
// ParsedRecordJSON 存整份结构化解析结果，筛选路径上的常用字段冗余为列
type Candidate struct {
	CandidateID       string         `gorm:"type:char(36);primaryKey"`
	FullName          string         `gorm:"type:varchar(255);index:idx_candidates_full_name"`
	Title             string         `gorm:"type:varchar(255)"`
	PrimaryEmail      string         `gorm:"type:varchar(255);uniqueIndex:idx_candidates_primary_email_unique"`
	PrimaryPhone      string         `gorm:"type:varchar(50)"`
	Location          string         `gorm:"type:varchar(255)"`
	Summary           string         `gorm:"type:text"`
	YearsOfExperience float64        `gorm:"type:float"`
	ParsedRecordJSON  datatypes.JSON `gorm:"type:json"`
	CreatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// Job 岗位信息表
type Job struct {
	JobID            string         `gorm:"type:char(36);primaryKey"`
	JobTitle         string         `gorm:"type:varchar(255);not null"`
	Description      string         `gorm:"type:text;not null"`
	RequirementsJSON datatypes.JSON `gorm:"type:json"` // 序列化的JobRequirements
	Status           string         `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// ResumeSubmission 简历提交/快照表
// 记录一次简历进入流水线的全生命周期状态
type ResumeSubmission struct {
	SubmissionUUID      string     `gorm:"type:char(36);primaryKey"`
	CandidateID         *string    `gorm:"type:char(36);index:idx_rs_candidate_id"`
	SubmissionTimestamp time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	OriginalFilename    string     `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string     `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string     `gorm:"type:varchar(1024)"`
	RawFileMD5          string     `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	FileHash            string     `gorm:"type:char(16);index:idx_rs_file_hash"` // 解析文本的内容哈希
	ProcessingStatus    string     `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string     `gorm:"type:varchar(50)"`
	CreatedAt           time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
	Candidate           *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// 简历处理状态
const (
	StatusPendingParsing = "PENDING_PARSING"
	StatusParsed         = "PARSED"
	StatusParseFailed    = "PARSE_FAILED"
	StatusDuplicate      = "DUPLICATE"
)

// MatchEvaluation 岗位-候选人匹配评估表
// 保存六因子评分的完整拆解，便于追溯单次评估
type MatchEvaluation struct {
	EvaluationID  uint64         `gorm:"primaryKey;autoIncrement"`
	CandidateID   string         `gorm:"type:char(36);not null;index:idx_me_candidate_id;uniqueIndex:idx_me_candidate_job_unique,priority:1"`
	JobID         string         `gorm:"type:char(36);not null;index:idx_me_job_id_total_score,priority:1;uniqueIndex:idx_me_candidate_job_unique,priority:2"`
	TotalScore    float64        `gorm:"type:float;index:idx_me_job_id_total_score,priority:2"`
	BreakdownJSON datatypes.JSON `gorm:"type:json"` // 序列化的ScoreBreakdown
	Reasoning     string         `gorm:"type:text"`
	EvaluatedAt   time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Job       *Job       `gorm:"foreignKey:JobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (MatchEvaluation) TableName() string {
	return "match_evaluations"
}
