package provider

import (
	"fmt"
	"time"

	"github.com/checkout-next/internal/authz"
	"github.com/checkout-next/internal/cache"
	"github.com/checkout-next/internal/client"
	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/repository"
	"github.com/checkout-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
// 未在本进程承载的服务对应字段为 nil，其依赖方通过 HTTP 客户端访问
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	ProductRepo        repository.ProductRepository
	CartRepo           repository.CartRepository
	OrderRepo          repository.OrderRepository
	TransactionRepo    repository.TransactionRepository
	ReconciliationRepo repository.ReconciliationRepository

	// Gateways
	InventoryGateway service.InventoryGateway
	CartGateway      service.CartGateway
	OrderGateway     service.OrderGateway

	// Services
	AuthzService          *authz.Service
	InventoryService      *service.InventoryService
	CartService           *service.CartService
	OrderService          *service.OrderService
	PaymentService        *service.PaymentService
	ReconciliationService *service.ReconciliationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("container requires config and db")
	}
	// 缓存不可用时降级为直接读库
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("init queue client: %w", err)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	c.ProductRepo = repository.NewProductRepository(c.DB)
	c.CartRepo = repository.NewCartRepository(c.DB)
	c.OrderRepo = repository.NewOrderRepository(c.DB)
	c.TransactionRepo = repository.NewTransactionRepository(c.DB)
	c.ReconciliationRepo = repository.NewReconciliationRepository(c.DB)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	server := c.Config.Server
	hostsCart := server.Hosts(constants.ServiceCart)
	hostsOrder := server.Hosts(constants.ServiceOrder)
	hostsPayment := server.Hosts(constants.ServicePayment)

	if server.Hosts(constants.ServiceInventory) {
		c.InventoryService = service.NewInventoryService(c.ProductRepo)
	}
	if hostsCart {
		if c.InventoryGateway, err = c.resolveInventoryGateway(); err != nil {
			return err
		}
		c.CartService = service.NewCartService(c.CartRepo, c.InventoryGateway)
	}
	if hostsOrder || hostsPayment {
		if c.CartGateway, err = c.resolveCartGateway(); err != nil {
			return err
		}
	}
	if hostsOrder {
		ttl := time.Duration(c.Config.Order.CacheTTLSeconds) * time.Second
		c.OrderService = service.NewOrderService(c.OrderRepo, c.CartGateway, ttl)
	}

	c.ReconciliationService = service.NewReconciliationService(c.ReconciliationRepo, c.QueueClient)
	if hostsPayment {
		if c.OrderGateway, err = c.resolveOrderGateway(); err != nil {
			return err
		}
		c.PaymentService = service.NewPaymentService(c.TransactionRepo, c.OrderGateway, c.CartGateway, c.ReconciliationService)
	}
	logger.Infow("provider_services_ready",
		"services", server.Services,
		"remote_inventory", c.InventoryService == nil && c.InventoryGateway != nil,
		"remote_cart", c.CartService == nil && c.CartGateway != nil,
		"remote_order", c.OrderService == nil && c.OrderGateway != nil,
	)
	return nil
}

func (c *Container) clientOptions(endpoint config.ServiceEndpointConfig) client.Options {
	return client.Options{
		Endpoint:      endpoint,
		Breaker:       c.Config.Downstream.Breaker,
		InternalToken: c.Config.Server.InternalToken,
	}
}

func (c *Container) resolveInventoryGateway() (service.InventoryGateway, error) {
	if c.InventoryService != nil {
		return c.InventoryService, nil
	}
	inventory, err := client.NewInventoryClient(c.clientOptions(c.Config.Downstream.Inventory))
	if err != nil {
		return nil, fmt.Errorf("cart service depends on inventory: %w", err)
	}
	return inventory, nil
}

func (c *Container) resolveCartGateway() (service.CartGateway, error) {
	if c.CartService != nil {
		return c.CartService, nil
	}
	carts, err := client.NewCartClient(c.clientOptions(c.Config.Downstream.Cart))
	if err != nil {
		return nil, fmt.Errorf("order/payment services depend on cart: %w", err)
	}
	return carts, nil
}

func (c *Container) resolveOrderGateway() (service.OrderGateway, error) {
	if c.OrderService != nil {
		return c.OrderService, nil
	}
	orders, err := client.NewOrderClient(c.clientOptions(c.Config.Downstream.Order))
	if err != nil {
		return nil, fmt.Errorf("payment service depends on order: %w", err)
	}
	return orders, nil
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
