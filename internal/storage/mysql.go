package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"cv-agent-go/internal/config"
	"cv-agent-go/internal/constants"
	"cv-agent-go/internal/storage/models"
	"cv-agent-go/internal/types"
)

var mysqlTracer = otel.Tracer("cv-agent-go/storage/mysql")

type spanContextKey struct{}

// GormTracingPlugin GORM插件，为数据库操作创建OpenTelemetry span
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// NewGormTracingPlugin 创建GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{tracer: mysqlTracer, dbName: dbName}
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after()); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after()); err != nil {
		return err
	}

	return nil
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		newCtx, span := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		)

		db.Statement.Context = context.WithValue(newCtx, spanContextKey{}, span)
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(spanContextKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil {
			// ErrRecordNotFound 是业务正常路径，不计为span错误
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}

// MySQL 提供关系数据库功能
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并自动迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel gormlogger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = gormlogger.Silent
	case 2:
		logLevel = gormlogger.Error
	case 3:
		logLevel = gormlogger.Warn
	default:
		logLevel = gormlogger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	return m, nil
}

func (m *MySQL) autoMigrateSchema() error {
	return m.db.AutoMigrate(
		&models.Candidate{},
		&models.Job{},
		&models.ResumeSubmission{},
		&models.MatchEvaluation{},
	)
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertCandidate 按解析结果写入或更新候选人
// 邮箱非空时以邮箱做冲突键，同一候选人重复投递覆盖旧解析结果
func (m *MySQL) UpsertCandidate(ctx context.Context, record *types.CandidateRecord) (*models.Candidate, error) {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("序列化候选人记录失败: %w", err)
	}

	candidate := &models.Candidate{
		CandidateID:       uuid.NewString(),
		FullName:          record.FullName,
		Title:             record.Title,
		PrimaryEmail:      record.Contact.Email,
		PrimaryPhone:      record.Contact.Phone,
		Location:          record.Contact.Location,
		Summary:           record.Summary,
		YearsOfExperience: record.YearsOfExperience,
		ParsedRecordJSON:  datatypes.JSON(recordJSON),
	}

	tx := m.db.WithContext(ctx)
	if record.Contact.Email != "" {
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "primary_email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "title", "primary_phone", "location",
				"summary", "years_of_experience", "parsed_record_json",
			}),
		}).Create(candidate).Error
		if err == nil {
			// 冲突更新时取回已存在的主键
			var existing models.Candidate
			if findErr := tx.Where("primary_email = ?", record.Contact.Email).First(&existing).Error; findErr == nil {
				return &existing, nil
			}
		}
	} else {
		err = tx.Create(candidate).Error
	}
	if err != nil {
		return nil, fmt.Errorf("写入候选人失败: %w", err)
	}
	return candidate, nil
}

// GetCandidateByID 按主键获取候选人
func (m *MySQL) GetCandidateByID(ctx context.Context, candidateID string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := m.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ListCandidates 按创建时间倒序分页列出候选人
func (m *MySQL) ListCandidates(ctx context.Context, offset, limit int) ([]models.Candidate, int64, error) {
	var candidates []models.Candidate
	var total int64

	tx := m.db.WithContext(ctx).Model(&models.Candidate{})
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&candidates).Error
	return candidates, total, err
}

// GetCandidatesByIDs 批量获取候选人，结果顺序不保证
func (m *MySQL) GetCandidatesByIDs(ctx context.Context, candidateIDs []string) ([]models.Candidate, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}
	var candidates []models.Candidate
	err := m.db.WithContext(ctx).Where("candidate_id IN ?", candidateIDs).Find(&candidates).Error
	return candidates, err
}

// CreateSubmission 创建简历提交记录
func (m *MySQL) CreateSubmission(ctx context.Context, sub *models.ResumeSubmission) error {
	if sub.SubmissionUUID == "" {
		sub.SubmissionUUID = uuid.NewString()
	}
	if sub.ParserVersion == "" {
		sub.ParserVersion = constants.ParserVersion
	}
	return m.db.WithContext(ctx).Create(sub).Error
}

// UpdateSubmissionStatus 更新提交记录的处理状态
func (m *MySQL) UpdateSubmissionStatus(ctx context.Context, submissionUUID, status string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Update("processing_status", status).Error
}

// BindSubmissionCandidate 把提交记录关联到解析出的候选人
func (m *MySQL) BindSubmissionCandidate(ctx context.Context, submissionUUID, candidateID string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(map[string]interface{}{
			"candidate_id":      candidateID,
			"processing_status": models.StatusParsed,
		}).Error
}

// UpdateSubmissionParseArtifacts 记录解析产物的位置和内容哈希
func (m *MySQL) UpdateSubmissionParseArtifacts(ctx context.Context, submissionUUID, parsedTextPathOSS, fileHash string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(map[string]interface{}{
			"parsed_text_path_oss": parsedTextPathOSS,
			"file_hash":            fileHash,
		}).Error
}

// SaveEvaluation 保存或覆盖一次匹配评估
// (candidate, job) 维度唯一，重复评估覆盖旧结果
func (m *MySQL) SaveEvaluation(ctx context.Context, candidateID, jobID string, breakdown *types.ScoreBreakdown) error {
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("序列化评分结果失败: %w", err)
	}

	evaluation := &models.MatchEvaluation{
		CandidateID:   candidateID,
		JobID:         jobID,
		TotalScore:    breakdown.TotalScore,
		BreakdownJSON: datatypes.JSON(breakdownJSON),
		Reasoning:     breakdown.Reasoning,
		EvaluatedAt:   time.Now(),
	}

	return m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "candidate_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_score", "breakdown_json", "reasoning", "evaluated_at",
		}),
	}).Create(evaluation).Error
}

// GetJobByID 按主键获取岗位
func (m *MySQL) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// SaveJob 保存岗位及其结构化要求
func (m *MySQL) SaveJob(ctx context.Context, job *models.Job, requirements *types.JobRequirements) error {
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if requirements != nil {
		reqJSON, err := json.Marshal(requirements)
		if err != nil {
			return fmt.Errorf("序列化岗位要求失败: %w", err)
		}
		job.RequirementsJSON = datatypes.JSON(reqJSON)
	}
	return m.db.WithContext(ctx).Save(job).Error
}
