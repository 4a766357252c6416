package respond

// PageMeta 分页信息，放在响应信封的 meta 字段
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
