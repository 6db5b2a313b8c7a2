package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
)

func newTestOptions(baseURL string) Options {
	return Options{
		Endpoint:      config.ServiceEndpointConfig{BaseURL: baseURL, TimeoutMS: 1000},
		Breaker:       config.BreakerConfig{MaxRequests: 1, TimeoutSeconds: 60, FailureThreshold: 2},
		InternalToken: "secret",
	}
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestInventoryClientDecodesProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(constants.HeaderInternalToken) != "secret" {
			writeEnvelope(w, http.StatusOK, `{"status_code":401,"msg":"Internal token is invalid","data":{"error_key":"error.internal_token"}}`)
			return
		}
		if r.URL.Path != "/internal/inventory/products/by-name" || r.URL.Query().Get("name") != "Green Tea" {
			writeEnvelope(w, http.StatusNotFound, `{"status_code":404,"msg":"not found","data":null}`)
			return
		}
		writeEnvelope(w, http.StatusOK, `{"status_code":0,"msg":"success","data":{"id":3,"name":"Green Tea","price":"4.25","stock":9}}`)
	}))
	defer server.Close()

	inventory, err := NewInventoryClient(newTestOptions(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	product, err := inventory.GetProductByName(context.Background(), "Green Tea")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.ID != 3 || product.StockQuantity != 9 || product.Price.String() != "4.25" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestClientMapsBusinessErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/inventory/products/7":
			writeEnvelope(w, http.StatusOK, `{"status_code":404,"msg":"Product not found","data":{"error_key":"error.product_not_found"}}`)
		case "/internal/inventory/products/7/reduce-stock":
			writeEnvelope(w, http.StatusOK, `{"status_code":400,"msg":"Insufficient stock","data":{"error_key":"error.insufficient_stock"}}`)
		default:
			writeEnvelope(w, http.StatusOK, `{"status_code":409,"msg":"exists","data":null}`)
		}
	}))
	defer server.Close()

	inventory, err := NewInventoryClient(newTestOptions(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	ctx := context.Background()
	_, err = inventory.GetProductByID(ctx, 7)
	if !errors.Is(err, service.ErrProductNotFound) || !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
	if errors.Is(err, service.ErrDownstreamUnavailable) {
		t.Fatalf("business errors must not look like downstream failures")
	}
	if err := inventory.ReduceStock(ctx, 7, 3); !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := inventory.GetProductByID(ctx, 8); !errors.Is(err, service.ErrAlreadyExists) {
		t.Fatalf("expected code fallback to already exists, got %v", err)
	}
}

func TestClientMapsServerFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/order/orders/1":
			writeEnvelope(w, http.StatusServiceUnavailable, `upstream busy`)
		default:
			writeEnvelope(w, http.StatusOK, `{"status_code":500,"msg":"Operation failed","data":{"error_key":"error.operation_failed"}}`)
		}
	}))
	defer server.Close()

	orders, err := NewOrderClient(Options{Endpoint: config.ServiceEndpointConfig{BaseURL: server.URL}, Breaker: config.BreakerConfig{FailureThreshold: 10}})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	_, err = orders.GetOrderByOrderID(context.Background(), 1)
	var downstream *service.DownstreamError
	if !errors.As(err, &downstream) || downstream.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected downstream 503, got %v", err)
	}
	if downstream.Transport() || !errors.Is(err, service.ErrDownstreamUnavailable) {
		t.Fatalf("http 503 is a downstream response, not a transport failure: %v", err)
	}

	_, err = orders.GetOrderByOrderID(context.Background(), 2)
	if !errors.Is(err, service.ErrDownstreamUnavailable) || !errors.Is(err, service.ErrOperationFailed) {
		t.Fatalf("envelope 500 should keep the remote error class, got %v", err)
	}
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	carts, err := NewCartClient(newTestOptions(baseURL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	err = carts.ClearCartAndReduceStock(context.Background(), 5)
	if !errors.Is(err, service.ErrDownstreamUnavailable) || !service.IsTransportFailure(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestBreakerOpensOnlyOnDownstreamFailures(t *testing.T) {
	var hits int32
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if failing.Load() {
			writeEnvelope(w, http.StatusBadGateway, `bad gateway`)
			return
		}
		writeEnvelope(w, http.StatusOK, `{"status_code":404,"msg":"Cart not found","data":{"error_key":"error.cart_not_found"}}`)
	}))
	defer server.Close()
	ctx := context.Background()

	notFound, err := NewCartClient(newTestOptions(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := notFound.GetCartIDByUserID(ctx, 1); !errors.Is(err, service.ErrCartNotFound) {
			t.Fatalf("call %d: expected cart not found, got %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 4 {
		t.Fatalf("business errors must not trip the breaker, hits=%d", got)
	}

	failing.Store(true)
	atomic.StoreInt32(&hits, 0)
	carts, err := NewCartClient(newTestOptions(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := carts.GetCartItemsByUserID(ctx, 1); !errors.Is(err, service.ErrDownstreamUnavailable) {
			t.Fatalf("call %d: expected downstream failure, got %v", i, err)
		}
	}
	_, err = carts.GetCartItemsByUserID(ctx, 1)
	if !errors.Is(err, gobreaker.ErrOpenState) || !service.IsTransportFailure(err) {
		t.Fatalf("expected open breaker reported as unavailable, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("open breaker must short-circuit, hits=%d", got)
	}
}

func TestBreakerIgnoresCheckoutStockShortage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var hits int32
	engine := gin.New()
	engine.DELETE("/internal/cart/users/:user_id/checkout", func(c *gin.Context) {
		atomic.AddInt32(&hits, 1)
		shared.RespondServiceError(c, fmt.Errorf("%w: reduce stock for product 4: %w", service.ErrOperationFailed, service.ErrInsufficientStock))
	})
	engine.GET("/internal/cart/users/:user_id/items", func(c *gin.Context) {
		atomic.AddInt32(&hits, 1)
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "msg": "success", "data": []interface{}{}})
	})
	server := httptest.NewServer(engine)
	defer server.Close()
	ctx := context.Background()

	carts, err := NewCartClient(newTestOptions(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		err := carts.ClearCartAndReduceStock(ctx, uint(i+1))
		if !errors.Is(err, service.ErrOperationFailed) || !errors.Is(err, service.ErrInsufficientStock) {
			t.Fatalf("checkout %d: expected operation failed caused by insufficient stock, got %v", i, err)
		}
		if errors.Is(err, service.ErrDownstreamUnavailable) {
			t.Fatalf("checkout %d: stock shortage reported as downstream failure: %v", i, err)
		}
	}
	items, err := carts.GetCartItemsByUserID(ctx, 9)
	if err != nil {
		t.Fatalf("other user's cart read should pass through a closed breaker, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
	if got := atomic.LoadInt32(&hits); got != 5 {
		t.Fatalf("every call should reach the cart service, hits=%d", got)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewOrderClient(Options{}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
