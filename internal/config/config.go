// Пакет config — загрузка и валидация конфигурации casedesk
// из переменных окружения (префикс CD_).
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит параметры конфигурации сервиса casedesk.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- JWT ---

	// URL JWKS endpoint провайдера идентификации
	JWTJWKSURL string
	// Ожидаемый issuer (пусто — не проверяется)
	JWTIssuer string
	// Допуск расхождения часов при проверке exp/nbf
	JWTLeeway time.Duration
	// Интервал обновления JWKS
	JWKSRefreshInterval time.Duration

	// --- Кэш карточек ---

	// Максимальное число карточек в LRU-кэше
	CacheSize int
	// Время жизни записи в кэше
	CacheTTL time.Duration

	// --- Topologymetrics ---

	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Имя группы сервиса в метриках зависимостей
	DephealthGroup string
	// Проверять доступность JWKS endpoint
	DephealthCheckJWKS bool

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию сервиса из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// CD_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("CD_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("CD_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("CD_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.LogLevel, cfg.LogFormat, err = loadLogging()
	if err != nil {
		return nil, err
	}

	// --- PostgreSQL ---

	if cfg.DBHost, err = getEnvRequired("CD_DB_HOST"); err != nil {
		return nil, err
	}
	cfg.DBPort, err = getEnvInt("CD_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("CD_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("CD_DB_NAME"); err != nil {
		return nil, err
	}
	if cfg.DBUser, err = getEnvRequired("CD_DB_USER"); err != nil {
		return nil, err
	}
	if cfg.DBPassword, err = getEnvRequired("CD_DB_PASSWORD"); err != nil {
		return nil, err
	}

	// CD_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("CD_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("CD_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- JWT ---

	// CD_JWT_JWKS_URL — обязательный
	if cfg.JWTJWKSURL, err = getEnvRequired("CD_JWT_JWKS_URL"); err != nil {
		return nil, err
	}
	if u, perr := url.Parse(cfg.JWTJWKSURL); perr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("CD_JWT_JWKS_URL: некорректный URL %q", cfg.JWTJWKSURL)
	}

	// CD_JWT_ISSUER — опционально
	cfg.JWTIssuer = getEnvDefault("CD_JWT_ISSUER", "")

	cfg.JWTLeeway, err = getEnvDuration("CD_JWT_LEEWAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_JWT_LEEWAY: %w", err)
	}

	cfg.JWKSRefreshInterval, err = getEnvDuration("CD_JWKS_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("CD_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// --- Кэш ---

	cfg.CacheSize, err = getEnvInt("CD_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("CD_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("CD_CACHE_SIZE: значение %d должно быть положительным", cfg.CacheSize)
	}

	cfg.CacheTTL, err = getEnvDuration("CD_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("CD_CACHE_TTL: %w", err)
	}

	// --- Topologymetrics ---

	cfg.DephealthCheckInterval, err = getEnvDuration("CD_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("CD_DEPHEALTH_GROUP", "casedesk")
	cfg.DephealthCheckJWKS, err = getEnvBool("CD_DEPHEALTH_CHECK_JWKS", true)
	if err != nil {
		return nil, fmt.Errorf("CD_DEPHEALTH_CHECK_JWKS: %w", err)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("CD_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("CD_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("CD_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("CD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL (формат key=value для pgxpool).
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для dephealth).
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// ClientConfig содержит параметры CLI-клиента casedeskctl.
type ClientConfig struct {
	// Базовый URL сервиса casedesk
	APIURL string
	// Таймаут HTTP-запроса к сервису
	APITimeout time.Duration
	// Путь к файлу сессии
	SessionFile string
	// Ключ шифрования сессии (base64 32 байта или произвольная строка)
	SessionKey string
	// Уровень логирования
	LogLevel slog.Level
	// Формат логов
	LogFormat string
}

// LoadClient загружает конфигурацию CLI-клиента.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	var err error

	cfg.APIURL = strings.TrimRight(getEnvDefault("CD_API_URL", "http://localhost:8080"), "/")
	if u, perr := url.Parse(cfg.APIURL); perr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("CD_API_URL: некорректный URL %q", cfg.APIURL)
	}

	cfg.APITimeout, err = getEnvDuration("CD_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CD_API_TIMEOUT: %w", err)
	}

	cfg.SessionFile = getEnvDefault("CD_SESSION_FILE", "")
	if cfg.SessionFile == "" {
		dir, derr := os.UserConfigDir()
		if derr != nil {
			return nil, fmt.Errorf("CD_SESSION_FILE: не задан и каталог конфигурации недоступен: %w", derr)
		}
		cfg.SessionFile = filepath.Join(dir, "casedesk", "session")
	}

	cfg.SessionKey = getEnvDefault("CD_SESSION_KEY", "")

	// Клиент по умолчанию пишет логи текстом и только предупреждения
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CD_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("CD_LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = getEnvDefault("CD_LOG_FORMAT", "text")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CD_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

// SetupClientLogger настраивает логгер CLI. Логи идут в stderr,
// чтобы не смешиваться с выводом команд.
func SetupClientLogger(cfg *ClientConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

func newLogger(w *os.File, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// loadLogging читает CD_LOG_LEVEL (по умолчанию info) и CD_LOG_FORMAT (по умолчанию json).
func loadLogging() (slog.Level, string, error) {
	level, err := parseLogLevel(getEnvDefault("CD_LOG_LEVEL", "info"))
	if err != nil {
		return 0, "", fmt.Errorf("CD_LOG_LEVEL: %w", err)
	}
	format := getEnvDefault("CD_LOG_FORMAT", "json")
	if format != "json" && format != "text" {
		return 0, "", fmt.Errorf("CD_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", format)
	}
	return level, format, nil
}

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	if d < 0 {
		return 0, fmt.Errorf("отрицательная длительность: %q", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
