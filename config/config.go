package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读取 .env（本地开发用；线上直接用环境变量）
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
}
