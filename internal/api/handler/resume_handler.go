package handler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cv-agent-go/internal/config"
	"cv-agent-go/internal/logger"
	"cv-agent-go/internal/parser"
	"cv-agent-go/internal/processor"
	"cv-agent-go/internal/storage"
	"cv-agent-go/internal/storage/models"
	"cv-agent-go/internal/types"
)

// maxBatchItems 单次批量解析请求的上限
const maxBatchItems = 50

// ResumeHandler 简历处理器，负责协调简历的摄取和解析流程
type ResumeHandler struct {
	cfg          *config.Config
	storage      *storage.Storage
	parseService *processor.ParseService
	extractor    processor.TextExtractor
	batchParser  *processor.BatchParser
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(
	cfg *config.Config,
	st *storage.Storage,
	parseService *processor.ParseService,
	extractor processor.TextExtractor,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:          cfg,
		storage:      st,
		parseService: parseService,
		extractor:    extractor,
		batchParser:  processor.NewBatchParser(parseService, cfg.Parser.BatchWorkers, logger.Component("batch")),
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// ParseTextRequest 同步文本解析请求
type ParseTextRequest struct {
	Text string `json:"text"`
	// Store为true时把解析结果落库并返回candidate_id
	Store bool `json:"store,omitempty"`
}

// ParseTextResponse 同步文本解析响应
type ParseTextResponse struct {
	CandidateID string                 `json:"candidate_id,omitempty"`
	Record      *types.CandidateRecord `json:"record"`
}

// HandleResumeUpload 处理简历上传请求
// 文件去重后上传MinIO、落提交记录并发布异步解析任务
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobID string, sourceChannel string) (*ResumeUploadResponse, error) {

	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	sum := md5.Sum(fileBytes)
	fileMD5Hex := hex.EncodeToString(sum[:])

	// 原子检查并登记文件MD5
	exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("查询Redis文件MD5去重集合失败")
		return nil, fmt.Errorf("检查文件MD5重复性失败: %w", err)
	}
	if exists {
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: "",
			Status:         "DUPLICATE_FILE_SKIPPED",
		}, nil
	}

	submissionUUID := uuid.NewString()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	originalObjectKey, _, err := h.storage.MinIO.UploadOriginalFromBytes(ctx, submissionUUID, ext, fileBytes)
	if err != nil {
		h.rollbackRawFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: time.Now(),
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		ProcessingStatus:    models.StatusPendingParsing,
	}
	if err := h.storage.MySQL.CreateSubmission(ctx, submission); err != nil {
		h.rollbackRawFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("创建简历提交记录失败: %w", err)
	}

	message := &storage.ResumeParseMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: submission.SubmissionTimestamp,
		SourceChannel:       sourceChannel,
		TargetJobID:         targetJobID,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
	}
	if err := h.storage.RabbitMQ.PublishParseTask(ctx, message); err != nil {
		if statusErr := h.storage.MySQL.UpdateSubmissionStatus(ctx, submissionUUID, models.StatusParseFailed); statusErr != nil {
			logger.Error().Err(statusErr).Str("submission_uuid", submissionUUID).Msg("更新提交状态失败")
		}
		h.rollbackRawFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("发布解析任务到RabbitMQ失败: %w", err)
	}

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_PARSING",
	}, nil
}

// HandleParseText 同步解析纯文本简历
func (h *ResumeHandler) HandleParseText(ctx context.Context, req *ParseTextRequest) (*ParseTextResponse, error) {
	if req == nil || req.Text == "" {
		return nil, fmt.Errorf("text不能为空")
	}

	record, err := h.parseService.ParseText(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	resp := &ParseTextResponse{Record: record}
	if req.Store {
		candidate, err := h.storage.MySQL.UpsertCandidate(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("保存候选人失败: %w", err)
		}
		resp.CandidateID = candidate.CandidateID
	}
	return resp, nil
}

// ParseBatchItem 批量解析的一项输入
type ParseBatchItem struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ParseBatchRequest 批量文本解析请求
type ParseBatchRequest struct {
	Items []ParseBatchItem `json:"items"`
}

// ParseBatchResult 批量解析的一项结果
type ParseBatchResult struct {
	Key    string                 `json:"key"`
	Record *types.CandidateRecord `json:"record,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// ParseBatchResponse 批量文本解析响应
type ParseBatchResponse struct {
	Results []ParseBatchResult `json:"results"`
}

// HandleParseBatch 并发解析一批简历文本，结果顺序与输入一致
func (h *ResumeHandler) HandleParseBatch(ctx context.Context, req *ParseBatchRequest) (*ParseBatchResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("items不能为空")
	}
	if len(req.Items) > maxBatchItems {
		return nil, fmt.Errorf("单批最多%d项", maxBatchItems)
	}

	items := make([]processor.BatchItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = processor.BatchItem{Key: it.Key, Text: it.Text}
	}

	results := h.batchParser.ParseAll(ctx, items)
	resp := &ParseBatchResponse{Results: make([]ParseBatchResult, len(results))}
	for i, r := range results {
		out := ParseBatchResult{Key: r.Key, Record: r.Record}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		resp.Results[i] = out
	}
	return resp, nil
}

// StartParseConsumer 启动简历解析消费者
// RabbitMQ拓扑可能尚未就绪，按配置的间隔重试声明
func (h *ResumeHandler) StartParseConsumer(ctx context.Context) error {
	retryInterval := config.GetDuration(h.cfg.RabbitMQ.RetryInterval, 5*time.Second)
	maxRetries := h.cfg.RabbitMQ.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var err error
	for attempt := 0; ; attempt++ {
		if err = h.storage.RabbitMQ.SetupParseTopology(); err == nil {
			break
		}
		if attempt >= maxRetries {
			return fmt.Errorf("声明解析任务拓扑失败: %w", err)
		}
		logger.Warn().Err(err).Int("attempt", attempt+1).Msg("声明解析任务拓扑失败，稍后重试")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	prefetch := h.cfg.RabbitMQ.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}
	workers := h.cfg.RabbitMQ.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		if err := h.startConsumerWorker(ctx, prefetch); err != nil {
			return err
		}
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.ParseQueue).
		Int("workers", workers).
		Msg("简历解析消费者已启动")
	return nil
}

func (h *ResumeHandler) startConsumerWorker(ctx context.Context, prefetch int) error {
	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.ParseQueue, prefetch, func(data []byte) bool {
		var message storage.ResumeParseMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析消息失败，丢弃")
			return true
		}

		if err := h.processParseMessage(ctx, &message); err != nil {
			logger.Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理简历解析任务失败")
			if statusErr := h.storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, models.StatusParseFailed); statusErr != nil {
				logger.Error().Err(statusErr).Str("submission_uuid", message.SubmissionUUID).Msg("更新提交状态为PARSE_FAILED失败")
			}
			// 回滚文件MD5，允许修复后重新提交同一文件
			if message.RawFileMD5 != "" {
				h.rollbackRawFileMD5(ctx, message.RawFileMD5)
			}
			return true
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("启动解析消费者失败: %w", err)
	}
	return nil
}

// processParseMessage 执行单条解析任务的完整流程
func (h *ResumeHandler) processParseMessage(ctx context.Context, message *storage.ResumeParseMessage) error {
	fileBytes, err := h.storage.MinIO.GetOriginal(ctx, message.OriginalFilePathOSS)
	if err != nil {
		return fmt.Errorf("从MinIO获取简历文件失败: %w", err)
	}

	text, err := h.extractor.ExtractFromBytes(ctx, fileBytes, message.OriginalFilename)
	if err != nil {
		return fmt.Errorf("提取简历文本失败: %w", err)
	}

	// 同一份文本内容只解析一次
	textSum := md5.Sum([]byte(text))
	textMD5Hex := hex.EncodeToString(textSum[:])
	dup, err := h.storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5Hex)
	if err != nil {
		logger.Warn().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("检查文本MD5失败，继续解析")
	} else if dup {
		logger.Info().
			Str("submission_uuid", message.SubmissionUUID).
			Str("text_md5", textMD5Hex).
			Msg("检测到重复的简历文本，标记为DUPLICATE")
		return h.storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, models.StatusDuplicate)
	}

	parsedObjectKey, err := h.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
	if err != nil {
		return fmt.Errorf("上传解析文本到MinIO失败: %w", err)
	}

	record, err := h.parseService.ParseText(ctx, text)
	if err != nil {
		return fmt.Errorf("解析简历文本失败: %w", err)
	}

	candidate, err := h.storage.MySQL.UpsertCandidate(ctx, record)
	if err != nil {
		return fmt.Errorf("保存候选人失败: %w", err)
	}

	if err := h.storage.MySQL.UpdateSubmissionParseArtifacts(ctx, message.SubmissionUUID, parsedObjectKey, parser.ContentHash(text)); err != nil {
		logger.Warn().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("记录解析产物失败")
	}
	if err := h.storage.MySQL.BindSubmissionCandidate(ctx, message.SubmissionUUID, candidate.CandidateID); err != nil {
		return fmt.Errorf("关联提交记录与候选人失败: %w", err)
	}

	if _, err := h.storage.Redis.IncrProcessedCounter(ctx); err != nil {
		logger.Warn().Err(err).Msg("递增处理计数失败")
	}

	logger.Info().
		Str("submission_uuid", message.SubmissionUUID).
		Str("candidate_id", candidate.CandidateID).
		Str("full_name", record.FullName).
		Msg("简历解析完成")
	return nil
}

func (h *ResumeHandler) rollbackRawFileMD5(ctx context.Context, md5Hex string) {
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, md5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", md5Hex).Msg("回滚文件MD5失败")
	}
}
