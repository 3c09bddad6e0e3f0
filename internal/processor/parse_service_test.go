package processor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"cv-agent-go/internal/parser"
	"cv-agent-go/internal/types"
)

// fakeCache 进程内RecordCache实现
type fakeCache struct {
	records map[string]*types.CandidateRecord
	gets    int
	puts    int
	failing bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{records: make(map[string]*types.CandidateRecord)}
}

func (c *fakeCache) GetRecord(_ context.Context, fileHash string) (*types.CandidateRecord, error) {
	c.gets++
	if c.failing {
		return nil, fmt.Errorf("cache down")
	}
	return c.records[fileHash], nil
}

func (c *fakeCache) PutRecord(_ context.Context, fileHash string, record *types.CandidateRecord) error {
	c.puts++
	if c.failing {
		return fmt.Errorf("cache down")
	}
	c.records[fileHash] = record
	return nil
}

// fakeAugmenter 可编程的LLM覆盖层
type fakeAugmenter struct {
	record *types.CandidateRecord
	err    error
	calls  int
}

func (a *fakeAugmenter) Augment(_ context.Context, _ string) (*types.CandidateRecord, error) {
	a.calls++
	return a.record, a.err
}

func testRuleParser() *parser.CVParser {
	return parser.NewCVParser(parser.Config{
		Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
}

const serviceCV = "Jane Doe\njane.doe@acme.io\n\nSkills\nPython, Docker\n"

func TestNewParseServiceRequiresParser(t *testing.T) {
	_, err := NewParseService(nil)
	assert.Error(t, err)
}

func TestParseTextRejectsEmptyInput(t *testing.T) {
	svc, err := NewParseService(testRuleParser())
	assert.NoError(t, err)

	// 1. 空文本和纯空白文本都拒绝
	_, err = svc.ParseText(context.Background(), "")
	assert.Error(t, err)

	_, err = svc.ParseText(context.Background(), "   \n\t ")
	assert.Error(t, err)
}

func TestParseTextCacheHit(t *testing.T) {
	cache := newFakeCache()
	service, err := NewParseService(testRuleParser(), WithRecordCache(cache), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)

	// 第一次解析写入缓存
	first, err := service.ParseText(context.Background(), serviceCV)
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.puts)

	// 第二次命中缓存，直接返回同一记录
	second, err := service.ParseText(context.Background(), serviceCV)
	assert.NoError(t, err)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, first, second)
}

func TestParseTextCacheFailureIsTolerated(t *testing.T) {
	cache := newFakeCache()
	cache.failing = true
	service, err := NewParseService(testRuleParser(), WithRecordCache(cache), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)

	// 缓存故障不阻断解析
	record, err := service.ParseText(context.Background(), serviceCV)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.FullName)
}

func TestParseTextAugmenterMerge(t *testing.T) {
	augmenter := &fakeAugmenter{record: &types.CandidateRecord{Title: "Staff Engineer"}}
	service, err := NewParseService(testRuleParser(), WithLLMAugmenter(augmenter), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)

	record, err := service.ParseText(context.Background(), serviceCV)
	assert.NoError(t, err)
	assert.Equal(t, 1, augmenter.calls)

	// 覆盖值生效且方法标签为混合
	assert.Equal(t, "Staff Engineer", record.Title)
	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Equal(t, ParsingMethodHybrid, record.Metadata.ParsingMethod)
}

func TestParseTextAugmenterFailureFallsBack(t *testing.T) {
	augmenter := &fakeAugmenter{err: fmt.Errorf("llm unavailable")}
	service, err := NewParseService(testRuleParser(), WithLLMAugmenter(augmenter), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)

	// LLM失败时保留规则解析结果
	record, err := service.ParseText(context.Background(), serviceCV)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Equal(t, parser.ParsingMethodRegex, record.Metadata.ParsingMethod)
}

func TestParseDocument(t *testing.T) {
	service, err := NewParseService(testRuleParser(), WithTextExtractor(NewPlainTextExtractor()), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)

	record, err := service.ParseDocument(context.Background(), []byte(serviceCV), "cv.txt")
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.FullName)

	// 未配置提取器时报错
	bare, err := NewParseService(testRuleParser())
	assert.NoError(t, err)
	_, err = bare.ParseDocument(context.Background(), []byte(serviceCV), "cv.txt")
	assert.Error(t, err)

	// 二进制载荷被拒绝
	_, err = service.ParseDocument(context.Background(), []byte("%PDF-1.7 binary"), "cv.pdf")
	assert.Error(t, err)
}
