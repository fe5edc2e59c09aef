package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("storage: file not found")

// Storage 临时文件存储接口
// 用于在调用上游接口前暂存请求中的二进制数据，调用结束后删除
type Storage interface {
	// Upload 写入文件，同名文件已存在时返回错误
	Upload(ctx context.Context, key string, data io.Reader) error

	// Download 打开文件
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete 删除文件（文件不存在时不返回错误）
	Delete(ctx context.Context, key string) error

	// GetFileInfo 获取文件信息
	GetFileInfo(ctx context.Context, key string) (*FileInfo, error)

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// FileInfo 文件信息
type FileInfo struct {
	Key  string
	Size int64
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
)
