package constants

import "time"

// Redis Key 前缀和格式常量
// 使用统一的命名规范: cvagent:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "cvagent"

	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"
	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityRecord 解析结果实体
	EntityRecord = "record"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityCounter 计数器实体
	EntityCounter = "counter"
	// EntityText 文本实体
	EntityText = "text"

	// KeyParsedRecord 解析结果缓存 (STRING, JSON值)
	// 格式: cvagent:resume:record:{fileHash}
	KeyParsedRecord = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityRecord + ":%s"

	// KeyRawFileMD5Set 原始文件MD5去重集合 (SET)
	// 格式: cvagent:file:dedup_set
	KeyRawFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyParsedTextMD5Set 解析后文本MD5去重集合 (SET)
	// 格式: cvagent:resume:dedup_set
	KeyParsedTextMD5Set = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityDedupSet

	// KeyProcessedCounter 已处理简历计数器 (STRING)
	// 格式: cvagent:resume:counter
	KeyProcessedCounter = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityCounter

	// KeyJobDescriptionText JD文本缓存 (STRING)
	// 格式: cvagent:job:text:{jobID}
	KeyJobDescriptionText = AppPrefix + ":" + JobModulePrefix + ":" + EntityText + ":%s"
)

// 缓存有效期
const (
	// RecordCacheDuration 解析结果缓存有效期
	RecordCacheDuration = 7 * 24 * time.Hour

	// JDCacheDuration JD文本缓存有效期
	JDCacheDuration = 24 * time.Hour
)
