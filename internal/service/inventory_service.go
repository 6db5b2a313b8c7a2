package service

import (
	"context"
	"strings"

	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/repository"

	"github.com/shopspring/decimal"
)

// InventoryService 库存服务
type InventoryService struct {
	repo repository.ProductRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(repo repository.ProductRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name          string
	Description   string
	Category      string
	Price         decimal.Decimal
	StockQuantity int
}

func (in ProductInput) normalize() (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return in, ErrInvalidProductName
	}
	if in.Price.IsNegative() {
		return in, ErrInvalidPrice
	}
	if in.StockQuantity < 0 {
		return in, ErrInvalidQuantity
	}
	return in, nil
}

// List 商品列表
func (s *InventoryService) List(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	products, total, err := s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Search:   search,
	})
	if err != nil {
		return nil, 0, persistenceError("list products", err)
	}
	return products, total, nil
}

// ListByCategory 按分类获取商品
func (s *InventoryService) ListByCategory(category string) ([]models.Product, error) {
	if strings.TrimSpace(category) == "" {
		return nil, ErrInvalidInput
	}
	products, err := s.repo.ListByCategory(category)
	if err != nil {
		return nil, persistenceError("list products by category", err)
	}
	return products, nil
}

// GetProductByID 根据 ID 获取商品
func (s *InventoryService) GetProductByID(_ context.Context, productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, persistenceError("get product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductByName 根据名称获取商品（大小写不敏感）
func (s *InventoryService) GetProductByName(_ context.Context, name string) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidProductName
	}
	product, err := s.repo.GetByName(name)
	if err != nil {
		return nil, persistenceError("get product by name", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 新增商品
func (s *InventoryService) Create(input ProductInput) (*models.Product, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByName(normalized.Name, 0)
	if err != nil {
		return nil, persistenceError("count product name", err)
	}
	if count > 0 {
		return nil, ErrProductNameExists
	}
	product := models.Product{
		Name:          normalized.Name,
		Description:   normalized.Description,
		Category:      normalized.Category,
		Price:         models.NewMoneyFromDecimal(normalized.Price),
		StockQuantity: normalized.StockQuantity,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, persistenceError("create product", err)
	}
	logger.Infow("inventory_product_created", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

// Update 更新商品
func (s *InventoryService) Update(productID uint, input ProductInput) (*models.Product, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, persistenceError("get product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	count, err := s.repo.CountByName(normalized.Name, productID)
	if err != nil {
		return nil, persistenceError("count product name", err)
	}
	if count > 0 {
		return nil, ErrProductNameExists
	}
	product.Name = normalized.Name
	product.Description = normalized.Description
	product.Category = normalized.Category
	product.Price = models.NewMoneyFromDecimal(normalized.Price)
	product.StockQuantity = normalized.StockQuantity
	if err := s.repo.Update(product); err != nil {
		return nil, persistenceError("update product", err)
	}
	return product, nil
}

// Delete 删除商品
func (s *InventoryService) Delete(productID uint) error {
	affected, err := s.repo.Delete(productID)
	if err != nil {
		return persistenceError("delete product", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	logger.Infow("inventory_product_deleted", "product_id", productID)
	return nil
}

// UpdateQuantity 直接设置库存数量
func (s *InventoryService) UpdateQuantity(productID uint, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	affected, err := s.repo.SetStock(productID, quantity)
	if err != nil {
		return nil, persistenceError("set stock", err)
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, persistenceError("get product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ReduceStock 扣减库存，库存不足时拒绝且不会扣成负数
func (s *InventoryService) ReduceStock(_ context.Context, productID uint, quantity int) error {
	if productID == 0 || quantity <= 0 {
		return ErrInvalidQuantity
	}
	affected, err := s.repo.ReduceStock(productID, quantity)
	if err != nil {
		return persistenceError("reduce stock", err)
	}
	if affected > 0 {
		logger.Infow("inventory_stock_reduced", "product_id", productID, "quantity", quantity)
		return nil
	}
	// 未命中时区分商品不存在与库存不足
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return persistenceError("get product", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	logger.Warnw("inventory_stock_insufficient",
		"product_id", productID,
		"requested", quantity,
		"available", product.StockQuantity,
	)
	return ErrInsufficientStock
}
