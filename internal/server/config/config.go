// Package config отвечает за:
// - чтение server.yaml
// - подстановку переменных окружения вида ${JWT_SIGNING_KEY}
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
// - открытие подключений к PostgreSQL и Redis
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — корневая структура всего конфига сервера.
type Config struct {
	Env           string              `yaml:"env"` // dev|stage|prod
	Server        ServerConfig        `yaml:"server"`
	TLS           TLSConfig           `yaml:"tls"`
	DB            DBConfig            `yaml:"db"`
	Migrations    MigrationsConfig    `yaml:"migrations"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Password      PasswordConfig      `yaml:"password"`
	History       HistoryConfig       `yaml:"history"`
	Security      SecurityConfig      `yaml:"security"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig — настройки HTTPS. Если выключен, сервер слушает обычный HTTP.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// MigrationsConfig — настройки миграций БД.
type MigrationsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // например file://migrations/postgres
}

// RedisConfig — подключение к Redis (маркеры токенов и rate limit).
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolSize     int           `yaml:"pool_size"`
}

// AuthConfig — настройки аутентификации/авторизации.
type AuthConfig struct {
	Issuer     string           `yaml:"issuer"`
	Audience   string           `yaml:"audience"`
	AccessTTL  time.Duration    `yaml:"access_ttl"`
	RefreshTTL time.Duration    `yaml:"refresh_ttl"`
	JWT        JWTConfig        `yaml:"jwt"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Revocation RevocationConfig `yaml:"revocation"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // сейчас поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // может содержать ${JWT_SIGNING_KEY}
}

// SessionsConfig — настройки хранения refresh-сессий (в БД).
type SessionsConfig struct {
	RotateRefresh  bool `yaml:"rotate_refresh"`
	ReuseDetection bool `yaml:"reuse_detection"`
}

// RevocationConfig — маркеры активных access-токенов в Redis.
//
// Если включено, токен без маркера session:<jti> не проходит аутентификацию,
// а logout удаляет маркер.
type RevocationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

// PasswordConfig — настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher string       `yaml:"hasher"` // argon2id|bcrypt
	Argon2 Argon2Config `yaml:"argon2"`
	Bcrypt BcryptConfig `yaml:"bcrypt"`
	// RequireComplexity — пароль должен содержать заглавную и строчную букву,
	// цифру и спецсимвол. Длина проверяется всегда.
	RequireComplexity bool `yaml:"require_complexity"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

// HistoryConfig — постраничная выдача истории вычислений.
type HistoryConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// SecurityConfig — ограничения/защита.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig — fixed window rate limit по IP на публичные auth-ручки.
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Limit   int           `yaml:"limit"`  // запросов в окне
	Window  time.Duration `yaml:"window"` // длина окна
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|console
	File   string `yaml:"file"`
	Stdout bool   `yaml:"stdout"`
}

// ObservabilityConfig — метрики.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, проставляет дефолты и валидирует.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}

	// Подставляем переменные окружения в текст YAML:
	// signing_key: "${JWT_SIGNING_KEY}" -> signing_key: "реальное_значение"
	expanded := ExpandEnvStrict(string(raw))
	raw = []byte(expanded)

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана — оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	re := regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)
	return re.ReplaceAllStringFunc(s, func(m string) string {
		sub := re.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyDefaults — дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Migrations.Path == "" {
		cfg.Migrations.Path = "file://migrations/postgres"
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 15 * time.Minute
	}
	if cfg.Auth.RefreshTTL == 0 {
		cfg.Auth.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Auth.Revocation.Prefix == "" {
		cfg.Auth.Revocation.Prefix = "session:"
	}
	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = "argon2id"
	}
	if cfg.History.DefaultPageSize == 0 {
		cfg.History.DefaultPageSize = 20
	}
	if cfg.History.MaxPageSize == 0 {
		cfg.History.MaxPageSize = 100
	}
	if cfg.Security.RateLimit.Window == 0 {
		cfg.Security.RateLimit.Window = time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Observability.Metrics.Path == "" {
		cfg.Observability.Metrics.Path = "/metrics"
	}
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так — возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	// Базовая проверка сервера
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
	}

	// База данных
	if c.DB.DSN == "" {
		return errors.New("db.dsn обязателен")
	}

	// Redis нужен для маркеров токенов и rate limit
	if (c.Auth.Revocation.Enabled || c.Security.RateLimit.Enabled) && c.Redis.Addr == "" {
		return errors.New("redis.addr обязателен при auth.revocation.enabled или security.rate_limit.enabled")
	}

	// JWT
	alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm))
	if alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	if key == "" {
		return errors.New("auth.jwt.signing_key обязателен (через ${JWT_SIGNING_KEY} или прямо строкой)")
	}
	// Если ${JWT_SIGNING_KEY} не подставился — значит переменная окружения не задана
	if strings.Contains(key, "${") && strings.Contains(key, "}") {
		return fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать JWT_SIGNING_KEY)", key)
	}
	// Для HS256 ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return errors.New("auth.access_ttl и auth.refresh_ttl должны быть > 0")
	}

	// Rate limit
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.Limit <= 0 {
			return errors.New("security.rate_limit.limit должен быть > 0 при включённом rate_limit")
		}
		if c.Security.RateLimit.Window <= 0 {
			return errors.New("security.rate_limit.window должен быть > 0 при включённом rate_limit")
		}
	}

	// Хэширование паролей
	switch strings.ToLower(c.Password.Hasher) {
	case "argon2id":
		if c.Password.Argon2.Time == 0 || c.Password.Argon2.MemoryKiB == 0 || c.Password.Argon2.Threads == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
		if c.Password.Argon2.KeyLen == 0 || c.Password.Argon2.SaltLen == 0 {
			return errors.New("password.argon2.key_len и salt_len должны быть > 0")
		}
	case "bcrypt":
		if c.Password.Bcrypt.Cost == 0 {
			return errors.New("password.bcrypt.cost должен быть задан для bcrypt")
		}
	default:
		return fmt.Errorf("password.hasher должен быть argon2id|bcrypt (сейчас %q)", c.Password.Hasher)
	}

	// История
	if c.History.DefaultPageSize <= 0 || c.History.MaxPageSize < c.History.DefaultPageSize {
		return fmt.Errorf("history: default_page_size=%d, max_page_size=%d некорректны",
			c.History.DefaultPageSize, c.History.MaxPageSize)
	}

	return nil
}

// ApplyEnvOverrides — даёт возможность переопределять некоторые настройки
// через переменные окружения без ${...} в yaml.
// Например SERVER_PORT=9090 переопределит server.port.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.DB.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

// Addr возвращает адрес, который слушает HTTP-сервер.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
