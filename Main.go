package main

import (
	"Backend/config"
	"Backend/routers"
	"context"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("無法建立logger")
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		logger.Fatal("無法讀取設定", zap.Error(err))
	}

	client, db, err := config.SetupMongoConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal("無法連接到資料庫", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	router := routers.SetupRouters(db, cfg, logger)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("伺服器啟動失敗", zap.Error(err))
	}
}
