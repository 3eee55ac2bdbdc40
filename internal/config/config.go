package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Режимы хранения одноразовых кодов
const (
	OtpStoragePostgres = "postgres"
	OtpStorageRedis    = "redis"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mail     MailConfig
	Otp      OtpConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах).
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах).
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// MailConfig содержит настройки почтового провайдера.
// Пустой APIKey означает, что доставка кодов по email не сконфигурирована:
// запросы с каналом email будут завершаться ошибкой конфигурации.
type MailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// OtpConfig содержит настройки жизненного цикла одноразовых кодов
type OtpConfig struct {
	// Storage: Хранилище кодов ("postgres" или "redis"). По умолчанию "postgres".
	Storage string `mapstructure:"storage"`

	// CodeTTL: Время жизни кода. По умолчанию 5 минут.
	CodeTTL time.Duration `mapstructure:"code_ttl"`

	// MaxAttempts: Лимит попыток проверки одного кода. По умолчанию 5.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("mail.resend_api_key", "MAIL_RESEND_API_KEY")
	vip.BindEnv("mail.from", "MAIL_FROM")

	vip.BindEnv("otp.storage", "OTP_STORAGE")
	vip.BindEnv("otp.code_ttl", "OTP_CODE_TTL")
	vip.BindEnv("otp.max_attempts", "OTP_MAX_ATTEMPTS")

	vip.BindEnv("server.port", "SERVER_PORT")

	// Путь к файлу конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Значения по умолчанию для жизненного цикла кодов
	if cfg.Otp.Storage == "" {
		cfg.Otp.Storage = OtpStoragePostgres
	}
	if cfg.Otp.CodeTTL <= 0 {
		cfg.Otp.CodeTTL = 5 * time.Minute
	}
	if cfg.Otp.MaxAttempts <= 0 {
		cfg.Otp.MaxAttempts = 5
	}

	// Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Otp Storage: %s", cfg.Otp.Storage)
		log.Printf("Otp Code TTL: %s", cfg.Otp.CodeTTL)
		log.Printf("Otp Max Attempts: %d", cfg.Otp.MaxAttempts)
		log.Printf("Mail Configured: %t", cfg.Mail.ResendAPIKey != "")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.Otp.Storage != OtpStoragePostgres && cfg.Otp.Storage != OtpStorageRedis {
		return nil, fmt.Errorf("unsupported otp storage %q (expected postgres or redis)", cfg.Otp.Storage)
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Otp.Storage == OtpStorageRedis && len(cfg.Redis.Addrs) == 0 && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis storage selected but redis address is not configured (check REDIS_ADDR env var)")
	}
	if cfg.Mail.ResendAPIKey != "" && cfg.Mail.From == "" {
		return nil, fmt.Errorf("mail.from is required when mail.resend_api_key is set (check MAIL_FROM env var)")
	}

	return &cfg, nil
}
