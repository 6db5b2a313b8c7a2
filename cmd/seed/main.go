package main

import (
	"flag"
	"time"

	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/service"
)

func main() {
	var issueTokens bool
	var tokenTTL time.Duration
	flag.BoolVar(&issueTokens, "tokens", false, "为演示用户签发 ADMIN/BILLER/CUSTOMER 身份令牌")
	flag.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "身份令牌有效期")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	created, err := models.SeedDemoProducts(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to seed products: %v", err)
	}
	stdLog.Printf("Seeded %d demo products", created)

	if !issueTokens {
		return
	}
	demoUsers := []struct {
		userID uint
		role   string
	}{
		{userID: 1, role: constants.RoleAdmin},
		{userID: 2, role: constants.RoleBiller},
		{userID: 3, role: constants.RoleCustomer},
	}
	for _, user := range demoUsers {
		token, expiresAt, err := service.IssueIdentityToken(cfg.Gateway.JWTSecret, user.userID, user.role, tokenTTL)
		if err != nil {
			stdLog.Fatalf("Failed to issue token for %s: %v", user.role, err)
		}
		stdLog.Printf("%s user_id=%d expires_at=%s token=%s", user.role, user.userID, expiresAt.Format(time.RFC3339), token)
	}
}
