package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every setting the service needs. It is built once in main
// and passed down; nothing else reads the environment.
type Config struct {
	Port string

	// Either DatabaseURL or the discrete DB_* values.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret   string
	AdminAPIKey string

	ShopName string
	Currency string

	// Payment-notification gateway (Telegram).
	TelegramManagerUsername string
	TelegramBotToken        string
	TelegramAdminChatID     int64
}

func Load() *Config {
	_ = godotenv.Load()

	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)

	return &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		ShopName: getenv("SHOP_NAME", "Electronik"),
		Currency: getenv("SHOP_CURRENCY", "som"),

		TelegramManagerUsername: getenv("TELEGRAM_MANAGER_USERNAME", "your_manager_username"),
		TelegramBotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID:     chatID,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
