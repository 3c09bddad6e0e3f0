package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cv-agent-go/internal/parser"
	"cv-agent-go/internal/types"
)

// ParseService 简历解析服务
// 编排 提取 -> 缓存查询 -> 规则解析 -> LLM覆盖 -> 合并 -> 缓存回写 全流程
// 除规则解析器外的依赖均可为nil，缺失时对应环节静默跳过
type ParseService struct {
	parser    *parser.CVParser
	extractor TextExtractor
	augmenter LLMAugmenter
	cache     RecordCache
	logger    zerolog.Logger
}

// ParseServiceOption 解析服务选项
type ParseServiceOption func(*ParseService)

// WithTextExtractor 设置文件文本提取器
func WithTextExtractor(e TextExtractor) ParseServiceOption {
	return func(s *ParseService) { s.extractor = e }
}

// WithLLMAugmenter 设置LLM覆盖层
func WithLLMAugmenter(a LLMAugmenter) ParseServiceOption {
	return func(s *ParseService) { s.augmenter = a }
}

// WithRecordCache 设置解析结果缓存
func WithRecordCache(c RecordCache) ParseServiceOption {
	return func(s *ParseService) { s.cache = c }
}

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) ParseServiceOption {
	return func(s *ParseService) { s.logger = l }
}

// NewParseService 创建解析服务
func NewParseService(p *parser.CVParser, opts ...ParseServiceOption) (*ParseService, error) {
	if p == nil {
		return nil, fmt.Errorf("cv parser cannot be nil")
	}
	s := &ParseService{parser: p}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ParseDocument 解析原始文件内容
// 需要配置了TextExtractor，否则返回错误
func (s *ParseService) ParseDocument(ctx context.Context, data []byte, filename string) (*types.CandidateRecord, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("no text extractor configured")
	}

	text, err := s.extractor.ExtractFromBytes(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", filename, err)
	}

	return s.ParseText(ctx, text)
}

// ParseText 解析纯文本简历
// 缓存命中直接返回；规则解析保证产出，LLM覆盖层尽力而为
func (s *ParseService) ParseText(ctx context.Context, text string) (*types.CandidateRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("简历文本为空")
	}

	fileHash := parser.ContentHash(text)

	if s.cache != nil {
		cached, err := s.cache.GetRecord(ctx, fileHash)
		if err != nil {
			// 缓存故障不阻断解析
			s.logger.Warn().Err(err).Str("file_hash", fileHash).Msg("读取解析缓存失败")
		} else if cached != nil {
			s.logger.Debug().Str("file_hash", fileHash).Msg("解析缓存命中")
			return cached, nil
		}
	}

	record := s.parser.Parse(text, fileHash)

	if s.augmenter != nil {
		llmRecord, err := s.augmenter.Augment(ctx, text)
		if err != nil {
			s.logger.Warn().Err(err).Str("file_hash", fileHash).Msg("LLM覆盖层失败，保留规则解析结果")
		} else if llmRecord != nil {
			record = MergeRecords(record, llmRecord)
		}
	}

	if s.cache != nil {
		if err := s.cache.PutRecord(ctx, fileHash, &record); err != nil {
			s.logger.Warn().Err(err).Str("file_hash", fileHash).Msg("写入解析缓存失败")
		}
	}

	return &record, nil
}
