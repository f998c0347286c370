package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	JWT    JWTConfig    `yaml:"jwt"`
}

// 讀取yaml設定檔，環境變數優先於檔案內容
// 設定檔不存在時只使用環境變數
func LoadConfig(filename string) (Config, error) {
	config := Config{
		Server: ServerConfig{Port: "3000"},
	}

	file, err := os.Open(filename)
	if err == nil {
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("invalid config file %s: %w", filename, err)
		}
	} else if !os.IsNotExist(err) {
		return config, err
	}

	//環境變數覆蓋設定檔
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.Mongo.URI = uri
	}
	if database := os.Getenv("DB_NAME"); database != "" {
		config.Mongo.Database = database
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.Secret = secret
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}

	if config.Mongo.URI == "" {
		return config, errors.New("mongo uri is required (config file or MONGO_URI)")
	}
	if config.Mongo.Database == "" {
		return config, errors.New("mongo database is required (config file or DB_NAME)")
	}
	if config.JWT.Secret == "" {
		return config, errors.New("jwt secret is required (config file or JWT_SECRET_KEY)")
	}

	return config, nil
}

// 建立MongoDB連線並以ping確認可用，啟動失敗直接回傳錯誤
func SetupMongoConnection(cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
