// Package augment 提供基于Gemini的LLM解析覆盖层
// 覆盖层是可选增强，任何失败都不影响规则解析主路径
package augment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"cv-agent-go/internal/types"
)

// DefaultModel 默认模型
const DefaultModel = "gemini-2.5-flash"

// 超长简历截断上限，避免超出上下文窗口
const maxPromptTextLen = 4000

const extractPrompt = `You are a resume parsing assistant. Extract structured information from the resume text below and answer with a single JSON object, no markdown fences, with these keys:
full_name, title, summary, contact (email, phone, location, linkedin, github), experience (company, title, location, start_date, end_date, responsibilities), education (institution, degree, field_of_study, start_date, end_date), skills (name, category), languages (name, level), years_of_experience.
Use "Unknown" for fields you cannot determine and "Present" for ongoing positions.

Resume text:
%s`

// JSON对象定位：取回复中第一个左花括号到最后一个右花括号
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ErrSchemaViolation LLM回复无法还原为候选人记录
var ErrSchemaViolation = errors.New("llm response does not match record schema")

// GeminiAugmenter 调用Gemini做一次结构化抽取
type GeminiAugmenter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// Config Gemini覆盖层配置
type Config struct {
	APIKey  string
	Model   string        // 为空时使用DefaultModel
	Timeout time.Duration // 为空时90秒
	Logger  zerolog.Logger
}

// NewGeminiAugmenter 创建Gemini覆盖层
func NewGeminiAugmenter(ctx context.Context, cfg Config) (*GeminiAugmenter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiAugmenter{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Augment 对简历文本做一次LLM结构化抽取
// 回复中无法定位或解析JSON时返回错误，由调用方降级
func (g *GeminiAugmenter) Augment(ctx context.Context, cvText string) (*types.CandidateRecord, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, fmt.Errorf("cv text cannot be empty")
	}
	if len(cvText) > maxPromptTextLen {
		cvText = cvText[:maxPromptTextLen]
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	result, err := g.client.Models.GenerateContent(
		timeoutCtx,
		g.model,
		genai.Text(fmt.Sprintf(extractPrompt, cvText)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	record, err := ExtractRecordJSON(result.Text())
	if err != nil {
		return nil, err
	}

	g.logger.Debug().
		Str("model", g.model).
		Dur("elapsed", time.Since(start)).
		Msg("LLM覆盖层抽取完成")

	return record, nil
}

// ExtractRecordJSON 从LLM回复文本中提取候选人记录
// 容忍回复中混入的说明文字与markdown围栏
func ExtractRecordJSON(text string) (*types.CandidateRecord, error) {
	raw := jsonObjectRe.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrSchemaViolation)
	}

	var record types.CandidateRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return &record, nil
}
