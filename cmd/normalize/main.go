package main

import (
	"fmt"
	"io"
	"os"

	"recipe-normalizer/internal/core/service"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/infrastructure/storage"
	"recipe-normalizer/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(common.LoggerOptions{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: os.Stderr,
		Service: cfg.App.Name,
	}); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	code := run(os.Stdout, cfg, storage.NewFileStore())
	common.Sync()
	os.Exit(code)
}

// run 執行一次正規化並回傳結束代碼。
// 讀取階段的錯誤只輸出訊息並以 0 結束，其餘錯誤以 1 結束
func run(stdout io.Writer, cfg *config.Config, store *storage.FileStore) int {
	logger := common.With(zap.String("run_id", common.GenerateUUID()))

	pipeline, err := service.NewPipeline(cfg, store, logger)
	if err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		return 1
	}

	if _, err := pipeline.Run(); err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		if common.IsInputError(err) {
			logger.Warn("Collection not normalized", zap.Error(err))
			return 0
		}
		logger.Error("Normalization failed", zap.Error(err))
		return 1
	}
	return 0
}
