package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/repository"

	"gorm.io/gorm"
)

// CartService 购物车服务
type CartService struct {
	repo      repository.CartRepository
	inventory InventoryGateway
}

// NewCartService 创建购物车服务
func NewCartService(repo repository.CartRepository, inventory InventoryGateway) *CartService {
	return &CartService{
		repo:      repo,
		inventory: inventory,
	}
}

// GetCart 获取用户购物车
func (s *CartService) GetCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	cart, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, persistenceError("get cart", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// GetCartIDByUserID 获取用户购物车 ID
func (s *CartService) GetCartIDByUserID(_ context.Context, userID uint) (uint, error) {
	cart, err := s.GetCart(userID)
	if err != nil {
		return 0, err
	}
	return cart.ID, nil
}

// GetCartItemsByUserID 获取用户购物车项
func (s *CartService) GetCartItemsByUserID(_ context.Context, userID uint) ([]models.CartItem, error) {
	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// AddItem 按商品名称加入购物车
func (s *CartService) AddItem(ctx context.Context, userID uint, productName string, quantity int) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if strings.TrimSpace(productName) == "" {
		return nil, ErrInvalidProductName
	}

	product, err := s.inventory.GetProductByName(ctx, productName)
	if err != nil {
		return nil, fmt.Errorf("lookup product %q: %w", productName, err)
	}
	if product.StockQuantity < quantity {
		return nil, fmt.Errorf("%w: %s available %d", ErrCartStockRejected, product.Name, product.StockQuantity)
	}

	// 已有购物车项时按累计数量重新读取库存
	stock := product.StockQuantity
	existingCart, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, persistenceError("get cart", err)
	}
	if existingCart != nil {
		line, err := s.repo.GetItemByProduct(existingCart.ID, product.ID)
		if err != nil {
			return nil, persistenceError("get cart item", err)
		}
		if line != nil {
			fresh, err := s.inventory.GetProductByID(ctx, product.ID)
			if err != nil {
				return nil, fmt.Errorf("refresh product %d: %w", product.ID, err)
			}
			stock = fresh.StockQuantity
		}
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.GetByUserForUpdate(userID)
		if err != nil {
			return persistenceError("lock cart", err)
		}
		if cart == nil {
			cart = &models.Cart{UserID: userID, TotalAmount: models.ZeroMoney()}
			if err := repo.Create(cart); err != nil {
				return persistenceError("create cart", err)
			}
			logger.Infow("cart_created", "user_id", userID, "cart_id", cart.ID)
		}

		line, err := repo.GetItemByProduct(cart.ID, product.ID)
		if err != nil {
			return persistenceError("get cart item", err)
		}
		var delta models.Money
		if line != nil {
			newQuantity := line.Quantity + quantity
			if stock < newQuantity {
				return fmt.Errorf("%w: %s available %d", ErrCartStockRejected, product.Name, stock)
			}
			previous := line.LineTotal
			line.Quantity = newQuantity
			line.LineTotal = line.UnitPrice.Times(newQuantity)
			delta = line.LineTotal.Minus(previous)
		} else {
			line = &models.CartItem{
				CartID:      cart.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    quantity,
				LineTotal:   product.Price.Times(quantity),
			}
			delta = line.LineTotal
		}
		if err := repo.SaveItem(line); err != nil {
			return persistenceError("save cart item", err)
		}
		if err := repo.UpdateTotal(cart.ID, cart.TotalAmount.Plus(delta)); err != nil {
			return persistenceError("update cart total", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("cart_item_added", "user_id", userID, "product_id", product.ID, "quantity", quantity)
	return s.GetCart(userID)
}

// IncreaseQuantity 购物车项数量加一
func (s *CartService) IncreaseQuantity(ctx context.Context, userID uint, productName string) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}
	line, err := s.repo.GetItemByName(cart.ID, productName)
	if err != nil {
		return nil, persistenceError("get cart item", err)
	}
	if line == nil {
		return nil, fmt.Errorf("%w: %s", ErrCartItemNotFound, productName)
	}
	product, err := s.inventory.GetProductByID(ctx, line.ProductID)
	if err != nil {
		return nil, fmt.Errorf("refresh product %d: %w", line.ProductID, err)
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.GetByUserForUpdate(userID)
		if err != nil {
			return persistenceError("lock cart", err)
		}
		if locked == nil {
			return ErrCartNotFound
		}
		current, err := repo.GetItemByName(locked.ID, productName)
		if err != nil {
			return persistenceError("get cart item", err)
		}
		if current == nil {
			return fmt.Errorf("%w: %s", ErrCartItemNotFound, productName)
		}
		if product.StockQuantity <= current.Quantity {
			return fmt.Errorf("%w: %s available %d", ErrCartStockRejected, current.ProductName, product.StockQuantity)
		}
		previous := current.LineTotal
		current.Quantity++
		current.LineTotal = current.UnitPrice.Times(current.Quantity)
		if err := repo.SaveItem(current); err != nil {
			return persistenceError("save cart item", err)
		}
		return updateCartTotal(repo, locked, current.LineTotal.Minus(previous))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// DecreaseQuantity 购物车项数量减一，数量为 1 时移除该项
func (s *CartService) DecreaseQuantity(_ context.Context, userID uint, productName string) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, line, err := lockCartLine(repo, userID, productName)
		if err != nil {
			return err
		}
		if line.Quantity <= 1 {
			if err := repo.DeleteItem(line.ID); err != nil {
				return persistenceError("delete cart item", err)
			}
			return updateCartTotal(repo, cart, models.ZeroMoney().Minus(line.LineTotal))
		}
		previous := line.LineTotal
		line.Quantity--
		line.LineTotal = line.UnitPrice.Times(line.Quantity)
		if err := repo.SaveItem(line); err != nil {
			return persistenceError("save cart item", err)
		}
		return updateCartTotal(repo, cart, line.LineTotal.Minus(previous))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(_ context.Context, userID uint, productName string) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, line, err := lockCartLine(repo, userID, productName)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(line.ID); err != nil {
			return persistenceError("delete cart item", err)
		}
		return updateCartTotal(repo, cart, models.ZeroMoney().Minus(line.LineTotal))
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("cart_item_removed", "user_id", userID, "product_name", productName)
	return s.GetCart(userID)
}

// ClearContentsOnly 清空购物车内容，不影响库存
func (s *CartService) ClearContentsOnly(_ context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidUserID
	}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.GetByUserForUpdate(userID)
		if err != nil {
			return persistenceError("lock cart", err)
		}
		if cart == nil {
			return ErrCartNotFound
		}
		if err := repo.DeleteItems(cart.ID); err != nil {
			return persistenceError("delete cart items", err)
		}
		if err := repo.UpdateTotal(cart.ID, models.ZeroMoney()); err != nil {
			return persistenceError("reset cart total", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Infow("cart_cleared", "user_id", userID)
	return nil
}

// ClearCartAndReduceStock 逐项扣减库存，全部成功后才清空购物车
func (s *CartService) ClearCartAndReduceStock(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidUserID
	}
	cart, err := s.GetCart(userID)
	if err != nil {
		return err
	}

	itemIDs := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		if err := s.inventory.ReduceStock(ctx, item.ProductID, item.Quantity); err != nil {
			logger.Errorw("cart_clear_reduce_stock_failed",
				"user_id", userID,
				"cart_id", cart.ID,
				"product_id", item.ProductID,
				"quantity", item.Quantity,
				"reduced_items", len(itemIDs),
				"error", err,
			)
			return operationFailed(fmt.Sprintf("reduce stock for product %d", item.ProductID), err)
		}
		itemIDs = append(itemIDs, item.ID)
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.GetByUserForUpdate(userID)
		if err != nil {
			return persistenceError("lock cart", err)
		}
		if locked == nil {
			return ErrCartNotFound
		}
		if err := repo.DeleteItemsByIDs(locked.ID, itemIDs); err != nil {
			return persistenceError("delete cart items", err)
		}
		// 扣减期间新加入的购物车项保留，总额按剩余项重算（无新增时为 0）
		remaining, err := repo.ListItems(locked.ID)
		if err != nil {
			return persistenceError("list cart items", err)
		}
		total := models.ZeroMoney()
		for _, item := range remaining {
			total = total.Plus(item.LineTotal)
		}
		if err := repo.UpdateTotal(locked.ID, total); err != nil {
			return persistenceError("reset cart total", err)
		}
		return nil
	})
	if err != nil {
		logger.Errorw("cart_clear_after_reduce_failed", "user_id", userID, "cart_id", cart.ID, "error", err)
		return operationFailed("clear cart after stock reduction", err)
	}
	logger.Infow("cart_checked_out", "user_id", userID, "cart_id", cart.ID, "items", len(itemIDs))
	return nil
}

// DeleteCart 删除购物车
func (s *CartService) DeleteCart(cartID uint) error {
	if cartID == 0 {
		return ErrInvalidInput
	}
	affected, err := s.repo.Delete(cartID)
	if err != nil {
		return persistenceError("delete cart", err)
	}
	if affected == 0 {
		return ErrCartNotFound
	}
	logger.Infow("cart_deleted", "cart_id", cartID)
	return nil
}

func lockCartLine(repo repository.CartRepository, userID uint, productName string) (*models.Cart, *models.CartItem, error) {
	cart, err := repo.GetByUserForUpdate(userID)
	if err != nil {
		return nil, nil, persistenceError("lock cart", err)
	}
	if cart == nil {
		return nil, nil, ErrCartNotFound
	}
	line, err := repo.GetItemByName(cart.ID, productName)
	if err != nil {
		return nil, nil, persistenceError("get cart item", err)
	}
	if line == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrCartItemNotFound, productName)
	}
	return cart, line, nil
}

func updateCartTotal(repo repository.CartRepository, cart *models.Cart, delta models.Money) error {
	if err := repo.UpdateTotal(cart.ID, cart.TotalAmount.Plus(delta)); err != nil {
		return persistenceError("update cart total", err)
	}
	return nil
}
