package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type EscrowConfig struct {
	Env          string `yaml:"env" env:"ESCROW_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	OrderDB      `yaml:"order_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	RedisCache   `yaml:"redis-cache"`
	Notifier     `yaml:"notifier"`
	Auth         `yaml:"auth"`
	Escrow       `yaml:"escrow"`
	RateLimit    `yaml:"rate_limit"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type OrderDB struct {
	Dsn             string        `yaml:"dsn" env:"ORDER_DB_DSN" env-required:"true"`
	MigrationsPath  string        `yaml:"migrations_path" env-default:"migrations"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host  string `yaml:"host" env:"KAFKA_HOST"`
	Port  string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic string `yaml:"topic" env-default:"escrow-events"`
}

func (k KafkaService) Enabled() bool {
	return k.Host != ""
}

func (k KafkaService) Address() string {
	return fmt.Sprintf("%s:%s", k.Host, k.Port)
}

type RedisCache struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_CACHE_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env-default:"5m"`
}

type Notifier struct {
	CallbackURL string        `yaml:"callback_url" env:"ESCROW_CALLBACK_URL"`
	Secret      string        `yaml:"secret" env:"ESCROW_CALLBACK_SECRET"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"ESCROW_JWT_SECRET" env-required:"true"`
}

type Escrow struct {
	AutoFinalizeDays     int           `yaml:"auto_finalize_days" env-default:"14"`
	DisputeResolverRoles []string      `yaml:"dispute_resolver_roles" env-default:"admin"`
	DefaultPaymentMethod string        `yaml:"default_payment_method" env-default:"xmr"`
	OverdueScanInterval  time.Duration `yaml:"overdue_scan_interval" env-default:"1m"`
}

func (e Escrow) GracePeriod() time.Duration {
	return time.Duration(e.AutoFinalizeDays) * 24 * time.Hour
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// Load reads the YAML file at path and applies env overrides.
func Load(configPath string) (*EscrowConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *EscrowConfig {
	configPath := os.Getenv("ESCROW_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
