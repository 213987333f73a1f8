package internal

const (
	// 操作日志数据库默认路径
	DefaultDatabasePath = "~/.file-organizer/oplog.db"

	// 未命中任何规则时使用的分类
	FallbackCategory = "Others"

	// 哈希计算的分块大小
	HashChunkSize = 8192

	// 文件类型检测所需的文件头部大小（字节）
	FileHeaderSize = 261
)
