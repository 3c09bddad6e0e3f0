package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"cv-agent-go/internal/api/handler"
	"cv-agent-go/internal/api/router"
	"cv-agent-go/internal/augment"
	"cv-agent-go/internal/config"
	"cv-agent-go/internal/logger"
	"cv-agent-go/internal/parser"
	"cv-agent-go/internal/processor"
	"cv-agent-go/internal/scoring"
	"cv-agent-go/internal/storage"
	"cv-agent-go/internal/tracing"
)

func main() {
	var (
		configPath   string
		createConfig string
	)
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.StringVar(&createConfig, "create-config", "", "在指定路径生成示例配置并退出")
	pflag.Parse()

	if createConfig != "" {
		if err := config.CreateSampleConfig(createConfig); err != nil {
			fmt.Fprintf(os.Stderr, "生成示例配置失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("示例配置已写入 %s\n", createConfig)
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置文件失败: %v\n", err)
		os.Exit(1)
	}

	initLogger(cfg)

	ctx := context.Background()

	// 链路追踪
	shutdownTracing, err := tracing.InitProvider(ctx, &cfg.Tracing)
	if err != nil {
		logger.Warn().Err(err).Msg("初始化链路追踪失败，继续无追踪运行")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("关闭链路追踪失败")
		}
	}()

	// 存储管理器
	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储管理器失败")
	}
	defer storageManager.Close()

	// 业务处理器
	handlers, resumeHandler, err := initializeHandlers(ctx, cfg, storageManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化业务处理器失败")
	}
	logger.Info().Msg("业务处理器初始化成功")

	// 解析消费者
	if storageManager.RabbitMQ != nil {
		go func() {
			if err := resumeHandler.StartParseConsumer(context.Background()); err != nil {
				logger.Fatal().Err(err).Msg("启动简历解析消费者失败")
			}
		}()
	} else {
		logger.Warn().Msg("RabbitMQ未就绪，异步解析流水线不可用")
	}

	// HTTP服务器
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
	)
	router.RegisterRoutes(h, handlers)

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}

	logger.Info().Msg("优雅退出完成")
}

// initLogger 初始化日志系统并接管hertz的框架日志
func initLogger(cfg *config.Config) {
	logConfig := logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	}
	if logConfig.Level == "" {
		logConfig.Level = "info"
	}
	if logConfig.TimeFormat == "" {
		logConfig.TimeFormat = time.RFC3339
	}
	logger.Init(logConfig)

	logger.Logger = logger.Logger.With().
		Str("app", "cv-agent").
		Logger()

	hlog.SetLogger(hertzzerolog.From(logger.Logger))
}

// initializeHandlers 组装解析流水线和HTTP处理器
func initializeHandlers(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*router.Handlers, *handler.ResumeHandler, error) {
	if storageManager == nil {
		return nil, nil, fmt.Errorf("存储管理器未初始化")
	}
	if storageManager.MySQL == nil {
		return nil, nil, fmt.Errorf("MySQL实例未初始化")
	}

	cvParser := parser.NewCVParser(parser.Config{
		Ontology: parser.DefaultOntology(),
		Logger:   logger.Component("parser"),
	})

	extractor := processor.NewPlainTextExtractor()

	opts := []processor.ParseServiceOption{
		processor.WithTextExtractor(extractor),
		processor.WithLogger(logger.Component("processor")),
	}

	if storageManager.Redis != nil {
		opts = append(opts, processor.WithRecordCache(storageManager.Redis))
	}

	if cfg.Gemini.Enabled && cfg.Gemini.APIKey != "" {
		augmenter, err := augment.NewGeminiAugmenter(ctx, augment.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			Timeout: time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
			Logger:  logger.Component("gemini"),
		})
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Gemini覆盖层失败，降级为纯规则解析")
		} else {
			opts = append(opts, processor.WithLLMAugmenter(augmenter))
			logger.Info().Str("model", cfg.Gemini.Model).Msg("Gemini覆盖层已启用")
		}
	}

	parseService, err := processor.NewParseService(cvParser, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("创建解析服务失败: %w", err)
	}

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, parseService, extractor)
	handlers := &router.Handlers{
		Resume:    resumeHandler,
		Candidate: handler.NewCandidateHandler(storageManager),
		Job:       handler.NewJobHandler(storageManager, scoring.NewEngine()),
	}
	return handlers, resumeHandler, nil
}
