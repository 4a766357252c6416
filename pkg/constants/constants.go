package constants

const (
	CHANNEL_SIZE        = 100      // 通道大小
	FILE_MAX_SIZE       = 10 << 20 // 单个上传文件最大大小（字节）
	DEFAULT_PAGE_SIZE   = 12       // 默认分页大小
	MAX_PAGE_SIZE       = 50       // 最大分页大小
	PET_DETAIL_TTL      = 300      // 宠物详情缓存时间（秒）
	CONVERSATION_WINDOW = 500      // 统计会话列表时最多扫描的消息条数
	MAX_PET_PHOTOS      = 9        // 单只宠物最多照片数
)

const (
	PET_DETAIL_KEY_PREFIX = "pet_detail_" // 宠物详情缓存 key 前缀
	RATE_LIMIT_KEY_PREFIX = "ratelimit:"  // 限流计数 key 前缀
	SYSTEM_SENDER_ID      = "system"      // 系统通知发送者
)
