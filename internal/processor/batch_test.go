package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBatchParseAll(t *testing.T) {
	service, err := NewParseService(testRuleParser(), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)
	batch := NewBatchParser(service, 3, zerolog.Nop())

	// 准备一批不同内容的简历文本
	items := make([]BatchItem, 10)
	for i := range items {
		items[i] = BatchItem{
			Key:  fmt.Sprintf("cv-%d", i),
			Text: fmt.Sprintf("Jane Doe\njane+%d@acme.io\n\nSkills\nPython\n", i),
		}
	}

	results := batch.ParseAll(context.Background(), items)

	// 结果顺序与输入顺序一致，每项都有产出
	assert.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, items[i].Key, r.Key)
		assert.NoError(t, r.Err)
		assert.Equal(t, "Jane Doe", r.Record.FullName)
	}
}

func TestBatchParserDefaultWorkers(t *testing.T) {
	service, err := NewParseService(testRuleParser())
	assert.NoError(t, err)

	batch := NewBatchParser(service, 0, zerolog.Nop())
	assert.Equal(t, DefaultBatchWorkers, batch.workers)
}

func TestBatchParseAllCancelled(t *testing.T) {
	service, err := NewParseService(testRuleParser(), WithLogger(zerolog.Nop()))
	assert.NoError(t, err)
	batch := NewBatchParser(service, 2, zerolog.Nop())

	// 取消后的上下文：未开始的项记为上下文错误
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []BatchItem{{Key: "a", Text: "text"}, {Key: "b", Text: "text"}}
	results := batch.ParseAll(ctx, items)

	assert.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, items[i].Key, r.Key)
	}
}
