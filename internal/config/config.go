package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Game      GameConfig
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// RedisConfig содержит настройки подключения к Redis.
// Redis хранит кеш рейтинга, отметки присутствия и счётчики лимитов; достаточно одного узла.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс

	// DialTimeout: тайм-аут установки соединения и стартового PING
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// JWTConfig содержит настройки проверки токенов внешнего провайдера идентификации
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	ExpirationHrs int    `mapstructure:"expirationHrs"` // используется только при выпуске тестовых токенов
}

// GameConfig содержит параметры игровых комнат, дуэлей и рейтинга
type GameConfig struct {
	RoomCodeLength      int           `mapstructure:"room_code_length"`
	RoomCodeMaxAttempts int           `mapstructure:"room_code_max_attempts"`
	MovePageSize        int           `mapstructure:"move_page_size"`
	LobbyOpenLimit      int           `mapstructure:"lobby_open_limit"`
	LobbyMineLimit      int           `mapstructure:"lobby_mine_limit"`
	PresenceWindow      time.Duration `mapstructure:"presence_window"`
	MatchQuestions      int           `mapstructure:"match_questions"`
	LeaderboardCacheTTL time.Duration `mapstructure:"leaderboard_cache_ttl"`
}

// RateLimitConfig задаёт лимиты запросов на окно для отдельных групп маршрутов.
// GameCatalog считается по IP, остальные лимиты по пользователю.
type RateLimitConfig struct {
	Enabled      bool
	RoomCreate   int           `mapstructure:"room_create"`
	RoomJoin     int           `mapstructure:"room_join"`
	MatchQueue   int           `mapstructure:"match_queue"`
	GameCatalog  int           `mapstructure:"game_catalog"`
	SessionStart int           `mapstructure:"session_start"`
	Window       time.Duration `mapstructure:"window"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultGameConfig возвращает игровые настройки по умолчанию
func DefaultGameConfig() GameConfig {
	return GameConfig{
		RoomCodeLength:      6,
		RoomCodeMaxAttempts: 10,
		MovePageSize:        50,
		LobbyOpenLimit:      10,
		LobbyMineLimit:      5,
		PresenceWindow:      30 * time.Second,
		MatchQuestions:      10,
		LeaderboardCacheTTL: time.Minute,
	}
}

func setDefaults(vip *viper.Viper) {
	game := DefaultGameConfig()
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 10)
	vip.SetDefault("server.write_timeout", 10)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_dir", "migrations")
	vip.SetDefault("redis.addr", "localhost:6379")
	vip.SetDefault("redis.dial_timeout", 5*time.Second)
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("game.room_code_length", game.RoomCodeLength)
	vip.SetDefault("game.room_code_max_attempts", game.RoomCodeMaxAttempts)
	vip.SetDefault("game.move_page_size", game.MovePageSize)
	vip.SetDefault("game.lobby_open_limit", game.LobbyOpenLimit)
	vip.SetDefault("game.lobby_mine_limit", game.LobbyMineLimit)
	vip.SetDefault("game.presence_window", game.PresenceWindow)
	vip.SetDefault("game.match_questions", game.MatchQuestions)
	vip.SetDefault("game.leaderboard_cache_ttl", game.LeaderboardCacheTTL)
	vip.SetDefault("ratelimit.enabled", true)
	vip.SetDefault("ratelimit.room_create", 10)
	vip.SetDefault("ratelimit.room_join", 30)
	vip.SetDefault("ratelimit.match_queue", 30)
	vip.SetDefault("ratelimit.game_catalog", 120)
	vip.SetDefault("ratelimit.session_start", 20)
	vip.SetDefault("ratelimit.window", time.Minute)
}

// Load загружает конфигурацию и проверяет обязательные параметры
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read загружает конфигурацию из файла, .env и переменных окружения без проверки.
// Используется утилитами, которым нужна только часть настроек.
func Read(configPath string) (*Config, error) {
	// .env не обязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния
	setDefaults(vip)

	// Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.migrations_dir", "DATABASE_MIGRATIONS_DIR")

	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.issuer", "JWT_ISSUER")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("ratelimit.enabled", "RATELIMIT_ENABLED")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файла может не быть: значения придут из env и умолчаний
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || errors.Is(err, fs.ErrNotExist) {
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

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Room code: length=%d attempts=%d", cfg.Game.RoomCodeLength, cfg.Game.RoomCodeMaxAttempts)
		log.Printf("Presence window: %s", cfg.Game.PresenceWindow)
		log.Printf("-----------------------------------------")
	}

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Game.RoomCodeLength < 4 || c.Game.RoomCodeLength > 8 {
		return fmt.Errorf("game.room_code_length must be between 4 and 8, got %d", c.Game.RoomCodeLength)
	}
	if c.Game.RoomCodeMaxAttempts < 1 {
		return fmt.Errorf("game.room_code_max_attempts must be positive")
	}
	if c.Game.MatchQuestions < 1 {
		return fmt.Errorf("game.match_questions must be positive")
	}
	return nil
}
