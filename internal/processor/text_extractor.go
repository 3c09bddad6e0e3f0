package processor

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"
)

// PlainTextExtractor 纯文本提取器
// 处理已经是文本的载荷（.txt/.md或上游OCR转换产物），
// 二进制格式由上游转换服务负责，这里只做防御性校验
type PlainTextExtractor struct{}

var _ TextExtractor = (*PlainTextExtractor)(nil)

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// ExtractFromReader 实现TextExtractor接口
func (e *PlainTextExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return e.ExtractFromBytes(ctx, data, filename)
}

// ExtractFromBytes 实现TextExtractor接口
// 拒绝明显的二进制载荷（PDF/DOCX魔数或非法UTF-8）
func (e *PlainTextExtractor) ExtractFromBytes(_ context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %s", filename)
	}

	if isBinaryPayload(data) {
		ext := strings.ToLower(path.Ext(filename))
		return "", fmt.Errorf("unsupported binary format %q for %s, convert to text upstream", ext, filename)
	}

	return string(data), nil
}

func isBinaryPayload(data []byte) bool {
	// PDF魔数 %PDF，DOCX/ZIP魔数 PK
	if len(data) >= 4 && string(data[:4]) == "%PDF" {
		return true
	}
	if len(data) >= 2 && data[0] == 'P' && data[1] == 'K' {
		return true
	}
	return !utf8.Valid(data)
}
