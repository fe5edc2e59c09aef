package storagefactory

import (
	"fmt"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/pkg/storage"
	"portfolio-chat/internal/pkg/storage/local"
)

// NewStorage 根据配置创建临时文件存储
// 未配置时使用系统临时目录下的本地存储
func NewStorage(cfg *config.StorageConfig) (storage.Storage, error) {
	switch storage.StorageType(cfg.Type) {
	case "", storage.StorageTypeLocal:
		var basePath string
		if cfg.Local != nil {
			basePath = cfg.Local.BasePath
		}
		return local.NewLocalStorage(basePath)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
