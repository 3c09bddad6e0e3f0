package storage

import "time"

// ResumeParseMessage 简历解析任务消息
type ResumeParseMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`          // 提交UUID
	SubmissionTimestamp time.Time `json:"submission_timestamp"`     // 提交时间戳
	SourceChannel       string    `json:"source_channel,omitempty"` // 来源渠道
	TargetJobID         string    `json:"target_job_id,omitempty"`  // 目标岗位ID
	OriginalFilename    string    `json:"original_filename"`        // 原始文件名
	OriginalFilePathOSS string    `json:"original_file_path_oss"`   // MinIO中的对象路径
	RawFileMD5          string    `json:"raw_file_md5,omitempty"`   // 原始文件的MD5，失败时用于回滚去重集合
}

// ParseResultMessage 解析完成后的结果通知
type ParseResultMessage struct {
	SubmissionUUID    string `json:"submission_uuid"`                // 提交UUID
	TargetJobID       string `json:"target_job_id,omitempty"`        // 目标岗位ID
	CandidateID       string `json:"candidate_id,omitempty"`         // 候选人ID
	ParsedTextPathOSS string `json:"parsed_text_path_oss,omitempty"` // 解析文本在MinIO中的路径
	Status            string `json:"status"`                         // 处理结果状态
	ProcessedAt       int64  `json:"processed_at,omitempty"`         // 处理完成时间戳
	Error             string `json:"error,omitempty"`                // 错误信息
}
