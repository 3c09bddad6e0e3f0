package processor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"cv-agent-go/internal/types"
)

// DefaultBatchWorkers 批量解析默认并发度
const DefaultBatchWorkers = 4

// BatchItem 批量解析的一项输入
type BatchItem struct {
	Key  string // 调用方标识，原样带回结果
	Text string
}

// BatchResult 批量解析的一项输出
type BatchResult struct {
	Key    string
	Record *types.CandidateRecord
	Err    error
}

// BatchParser 有界并发的批量解析器
// 单项失败只标记该项结果，不影响其他项
type BatchParser struct {
	service *ParseService
	workers int
	logger  zerolog.Logger
}

// NewBatchParser 创建批量解析器，workers小于1时取默认并发度
func NewBatchParser(service *ParseService, workers int, logger zerolog.Logger) *BatchParser {
	if workers < 1 {
		workers = DefaultBatchWorkers
	}
	return &BatchParser{service: service, workers: workers, logger: logger}
}

// ParseAll 并发解析一批简历文本
// 结果顺序与输入顺序一致；上下文取消后未开始的项记为上下文错误
func (b *BatchParser) ParseAll(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				item := items[idx]
				record, err := b.service.ParseText(ctx, item.Text)
				results[idx] = BatchResult{Key: item.Key, Record: record, Err: err}
			}
		}()
	}

	for idx := range items {
		select {
		case <-ctx.Done():
			results[idx] = BatchResult{Key: items[idx].Key, Err: ctx.Err()}
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	b.logger.Info().Int("total", len(items)).Int("workers", b.workers).Msg("批量解析完成")
	return results
}
