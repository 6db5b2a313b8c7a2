package config

import (
	"fmt"
	"strings"

	"github.com/checkout-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Downstream DownstreamConfig `mapstructure:"downstream"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Queue      QueueConfig      `mapstructure:"queue"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Order      OrderConfig      `mapstructure:"order"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host          string   `mapstructure:"host"`
	Port          string   `mapstructure:"port"`
	Mode          string   `mapstructure:"mode"`           // debug / release
	Services      []string `mapstructure:"services"`       // 本进程承载的服务（inventory/cart/order/payment）
	InternalToken string   `mapstructure:"internal_token"` // 服务间调用令牌（为空时不校验）
}

// Hosts 判断本进程是否承载指定服务
func (c ServerConfig) Hosts(name string) bool {
	target := strings.ToLower(strings.TrimSpace(name))
	for _, svc := range c.Services {
		if strings.ToLower(strings.TrimSpace(svc)) == target {
			return true
		}
	}
	return false
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// GatewayConfig 网关身份配置
type GatewayConfig struct {
	JWTSecret            string          `mapstructure:"jwt_secret"`             // 身份令牌签名密钥
	TrustIdentityHeaders bool            `mapstructure:"trust_identity_headers"` // 是否信任上游注入的 X-UserId / X-Role
	PaymentRateLimit     RateLimitConfig `mapstructure:"payment_rate_limit"`
}

// RateLimitConfig 频率限制配置（任一值 <= 0 时关闭）
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// DownstreamConfig 下游服务配置
type DownstreamConfig struct {
	Inventory ServiceEndpointConfig `mapstructure:"inventory"`
	Cart      ServiceEndpointConfig `mapstructure:"cart"`
	Order     ServiceEndpointConfig `mapstructure:"order"`
	Breaker   BreakerConfig         `mapstructure:"breaker"`
}

// ServiceEndpointConfig 单个下游服务地址
type ServiceEndpointConfig struct {
	BaseURL   string `mapstructure:"base_url"`   // 为空时使用进程内实现
	TimeoutMS int    `mapstructure:"timeout_ms"` // 单次调用超时
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	MaxRequests      uint32 `mapstructure:"max_requests"`      // 半开状态允许的请求数
	IntervalSeconds  int    `mapstructure:"interval_seconds"`  // 闭合状态计数清零周期
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`   // 打开状态持续时间
	FailureThreshold uint32 `mapstructure:"failure_threshold"` // 连续失败阈值
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// OrderConfig 订单配置
type OrderConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"` // 订单快照缓存时长
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	setDefaults(viper.GetViper())

	// 环境变量支持（例如 server.port -> SERVER_PORT）
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	cfg.Server.Services = normalizeServices(cfg.Server.Services)

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.services", []string{"inventory", "cart", "order", "payment"})
	v.SetDefault("server.internal_token", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "checkout.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/checkout.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("gateway.jwt_secret", "change-me-in-production")
	v.SetDefault("gateway.trust_identity_headers", true)
	v.SetDefault("gateway.payment_rate_limit.window_seconds", 60)
	v.SetDefault("gateway.payment_rate_limit.max_requests", 30)
	v.SetDefault("downstream.inventory.base_url", "")
	v.SetDefault("downstream.inventory.timeout_ms", 3000)
	v.SetDefault("downstream.cart.base_url", "")
	v.SetDefault("downstream.cart.timeout_ms", 5000)
	v.SetDefault("downstream.order.base_url", "")
	v.SetDefault("downstream.order.timeout_ms", 3000)
	v.SetDefault("downstream.breaker.max_requests", 1)
	v.SetDefault("downstream.breaker.interval_seconds", 60)
	v.SetDefault("downstream.breaker.timeout_seconds", 30)
	v.SetDefault("downstream.breaker.failure_threshold", 5)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "co")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  5,
		"critical": 10,
	})
	v.SetDefault("order.cache_ttl_seconds", 600)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-UserId",
		"X-Role",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
}

// normalizeServices 去重并统一为小写，支持 "cart,order" 形式的环境变量
func normalizeServices(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}
	return result
}
