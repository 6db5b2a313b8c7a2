package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/service"

	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout          = 3 * time.Second
	defaultFailureThreshold = 5
	maxResponseBytes        = 1 << 20
)

var errResponseInvalid = errors.New("response invalid")

var (
	_ service.InventoryGateway = (*InventoryClient)(nil)
	_ service.CartGateway      = (*CartClient)(nil)
	_ service.OrderGateway     = (*OrderClient)(nil)
)

// envelope 与 response.Response 对应的响应结构
type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type errorData struct {
	ErrorKey string `json:"error_key"`
	CauseKey string `json:"cause_key"`
}

// Options 下游客户端配置
type Options struct {
	Endpoint      config.ServiceEndpointConfig
	Breaker       config.BreakerConfig
	InternalToken string
	HTTPClient    *http.Client
}

// baseClient 下游调用基础实现（熔断 + 统一响应解码）
type baseClient struct {
	service string
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

func newBaseClient(serviceName string, opts Options) (*baseClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.Endpoint.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%s base_url is required", serviceName)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := defaultTimeout
		if opts.Endpoint.TimeoutMS > 0 {
			timeout = time.Duration(opts.Endpoint.TimeoutMS) * time.Millisecond
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &baseClient{
		service: serviceName,
		baseURL: baseURL,
		token:   strings.TrimSpace(opts.InternalToken),
		http:    httpClient,
		breaker: newBreaker(serviceName, opts.Breaker),
	}, nil
}

func newBreaker(serviceName string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[json.RawMessage] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = defaultFailureThreshold
	}
	settings := gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 业务错误（4xx 及带业务原因的 5xx）不计入熔断
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var downstream *service.DownstreamError
			return !errors.As(err, &downstream)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("downstream_breaker_state_changed",
				"service", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[json.RawMessage](settings)
}

// call 发起请求并返回 data 字段
func (c *baseClient) call(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.do(ctx, method, path, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &service.DownstreamError{Service: c.service, Err: err}
	}
	return data, err
}

func (c *baseClient) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(constants.HeaderInternalToken, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &service.DownstreamError{Service: c.service, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &service.DownstreamError{Service: c.service, Err: err}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &service.DownstreamError{Service: c.service, StatusCode: resp.StatusCode, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &service.DownstreamError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", errResponseInvalid, err),
		}
	}
	if env.StatusCode == 0 && resp.StatusCode == http.StatusOK {
		return env.Data, nil
	}
	return nil, c.mapError(env, resp.StatusCode)
}

// mapError 将下游业务码还原为本地错误分类
func (c *baseClient) mapError(env envelope, httpStatus int) error {
	code := env.StatusCode
	if code == 0 {
		code = httpStatus
	}
	var data errorData
	if len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &data)
	}
	sentinel, known := errorKeySentinels[data.ErrorKey]
	detail := strings.TrimSpace(env.Msg)
	causeSentinel, businessCause := errorKeySentinels[data.CauseKey]
	businessCause = businessCause && !serviceFaultKeys[data.CauseKey]

	switch {
	case code >= 500 && businessCause:
		// 下游已完成处理并给出业务原因（如结账时库存不足），保留原因且不视为服务故障
		return fmt.Errorf("%w: %s service: %s: %w", service.ErrOperationFailed, c.service, detail, causeSentinel)
	case code >= 500:
		cause := errors.New(detail)
		if known {
			cause = fmt.Errorf("%w: %s", sentinel, detail)
		}
		return &service.DownstreamError{Service: c.service, StatusCode: code, Err: cause}
	case known:
		return fmt.Errorf("%w: %s service: %s", sentinel, c.service, detail)
	case code == 404:
		return fmt.Errorf("%w: %s service: %s", service.ErrNotFound, c.service, detail)
	case code == 409:
		return fmt.Errorf("%w: %s service: %s", service.ErrAlreadyExists, c.service, detail)
	case code == 400:
		return fmt.Errorf("%w: %s service: %s", service.ErrInvalidInput, c.service, detail)
	default:
		// 401/403 等为部署配置问题，按下游不可用处理
		return &service.DownstreamError{Service: c.service, StatusCode: code, Err: errors.New(detail)}
	}
}

var errorKeySentinels = map[string]error{
	"error.not_found":            service.ErrNotFound,
	"error.already_exists":       service.ErrAlreadyExists,
	"error.product_not_found":    service.ErrProductNotFound,
	"error.cart_not_found":       service.ErrCartNotFound,
	"error.cart_item_not_found":  service.ErrCartItemNotFound,
	"error.order_not_found":      service.ErrOrderNotFound,
	"error.bad_request":          service.ErrInvalidInput,
	"error.user_id_invalid":      service.ErrInvalidUserID,
	"error.quantity_invalid":     service.ErrInvalidQuantity,
	"error.product_name_invalid": service.ErrInvalidProductName,
	"error.insufficient_stock":   service.ErrInsufficientStock,
	"error.cart_rejected":        service.ErrCartOperationRejected,
	"error.cart_empty":           service.ErrCartEmpty,
	"error.order_placement":      service.ErrOrderPlacement,
	"error.operation_failed":     service.ErrOperationFailed,
	"error.persistence_failed":   service.ErrPersistence,
}

// serviceFaultKeys 表示下游自身故障的错误键，不能作为业务原因
var serviceFaultKeys = map[string]bool{
	"error.operation_failed":   true,
	"error.persistence_failed": true,
}

func decodeData(serviceName string, data json.RawMessage, out interface{}) error {
	if len(data) == 0 || string(data) == "null" {
		return &service.DownstreamError{Service: serviceName, StatusCode: http.StatusOK, Err: fmt.Errorf("%w: empty data", errResponseInvalid)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.DownstreamError{Service: serviceName, StatusCode: http.StatusOK, Err: fmt.Errorf("%w: %v", errResponseInvalid, err)}
	}
	return nil
}
