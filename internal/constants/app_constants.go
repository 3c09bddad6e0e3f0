package constants

const (
	// ParserVersion 解析流水线版本，随解析规则演进递增
	ParserVersion = "1.0"

	// 简历原始文件桶与解析文本桶
	BucketOriginals  = "cv-originals"
	BucketParsedText = "cv-parsed-text"

	// 简历解析消息队列
	QueueResumeParse    = "resume_parse_queue"
	ExchangeResumeParse = "resume_parse_exchange"
)
