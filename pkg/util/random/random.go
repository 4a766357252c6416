package random

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GetNowAndLenRandomString 生成带日期前缀的随机字符串
// 格式: YYMMDD + 字母数字混合
// 示例: 241230AbCdE12345
func GetNowAndLenRandomString(length int) string {
	return time.Now().Format("060102") + String(length)
}

// String 生成指定长度的安全随机字母数字串
func String(length int) string {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			result[i] = 'x'
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// FileName 生成不可猜测的存储文件名，ext 可带或不带点，统一转小写
func FileName(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return GetNowAndLenRandomString(12) + ext
}
