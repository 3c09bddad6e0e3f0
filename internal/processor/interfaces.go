package processor

import (
	"context"
	"io"

	"cv-agent-go/internal/types"
)

//
// 文本提取相关接口
//

// TextExtractor 原始文件到纯文本的提取接口
// 解析核心只消费纯文本，PDF/DOCX的二进制处理隔离在实现之后
type TextExtractor interface {
	// ExtractFromReader 从io.Reader提取纯文本
	// 参数：
	// - ctx: 上下文
	// - reader: 文件内容的读取器
	// - filename: 原始文件名，用于按扩展名选择提取路径
	// 返回：
	// - 提取的纯文本
	// - 错误信息
	ExtractFromReader(ctx context.Context, reader io.Reader, filename string) (string, error)

	// ExtractFromBytes 从字节数组提取纯文本
	ExtractFromBytes(ctx context.Context, data []byte, filename string) (string, error)
}

//
// LLM覆盖层相关接口
//

// LLMAugmenter LLM增强解析接口
// 返回的记录只在与规则结果合并时生效，失败不影响主流程
type LLMAugmenter interface {
	// Augment 用LLM对简历文本做一次结构化抽取
	Augment(ctx context.Context, cvText string) (*types.CandidateRecord, error)
}

//
// 缓存相关接口
//

// RecordCache 解析结果缓存接口，以内容哈希为键
type RecordCache interface {
	// GetRecord 获取缓存的解析结果，未命中返回 (nil, nil)
	GetRecord(ctx context.Context, fileHash string) (*types.CandidateRecord, error)

	// PutRecord 写入解析结果
	PutRecord(ctx context.Context, fileHash string, record *types.CandidateRecord) error
}
