package storage

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"pet_adoption_server/pkg/errorx"
	"pet_adoption_server/pkg/util/random"
)

// 允许上传的图片类型，按文件头识别，不信任扩展名
var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DetectImage 读取文件头判断图片类型
func DetectImage(data []byte) (contentType, ext string, ok bool) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType = http.DetectContentType(head)
	ext, ok = imageExts[contentType]
	return contentType, ext, ok
}

// SaveImage 校验大小与类型后写入存储，dir 为对象目录（avatars / pets）
// 校验失败返回 CodeInvalidParam，存储失败返回原始错误
func SaveImage(ctx context.Context, st Storage, fh *multipart.FileHeader, dir string, maxBytes int64) (string, error) {
	if fh.Size > maxBytes {
		return "", errorx.Newf(errorx.CodeInvalidParam, "文件 %s 超过大小限制 %dMB", fh.Filename, maxBytes>>20)
	}
	src, err := fh.Open()
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeInvalidParam, "读取上传文件失败")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeInvalidParam, "读取上传文件失败")
	}
	if int64(len(data)) > maxBytes {
		return "", errorx.Newf(errorx.CodeInvalidParam, "文件 %s 超过大小限制 %dMB", fh.Filename, maxBytes>>20)
	}

	contentType, ext, ok := DetectImage(data)
	if !ok {
		return "", errorx.Newf(errorx.CodeInvalidParam, "不支持的文件类型: %s", contentType)
	}

	objectPath := path.Join(dir, random.FileName(ext))
	return st.Put(ctx, objectPath, data, contentType)
}
