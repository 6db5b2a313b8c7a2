package i18n

var enMessages = map[string]string{
	"error.bad_request":            "Invalid request parameters",
	"error.unauthorized":           "Unauthorized",
	"error.forbidden":              "Access denied",
	"error.not_found":              "Resource not found",
	"error.internal_error":         "Internal server error",
	"error.already_exists":         "Resource already exists",
	"error.token_invalid":          "Token is invalid or expired",
	"error.auth_header_invalid":    "Authorization header is malformed",
	"error.identity_missing":       "User identity is missing",
	"error.internal_token":         "Internal token is invalid",
	"error.user_id_invalid":        "User id must be a positive number",
	"error.quantity_invalid":       "Quantity must be positive",
	"error.product_name_invalid":   "Product name is required",
	"error.price_invalid":          "Price must not be negative",
	"error.amount_invalid":         "Received amount must be non-negative with at most 2 decimal places",
	"error.card_details_missing":   "Card number and holder name are required",
	"error.upi_id_invalid":         "UPI id is required and must look like name@bank",
	"error.payment_mode_invalid":   "Unknown payment mode",
	"error.transaction_settled":    "Only pending transactions can be verified",
	"error.product_not_found":      "Product not found",
	"error.product_name_exists":    "A product with this name already exists",
	"error.insufficient_stock":     "Insufficient stock",
	"error.cart_not_found":         "Cart not found",
	"error.cart_item_not_found":    "Cart item not found",
	"error.cart_rejected":          "Cart operation rejected",
	"error.cart_empty":             "Cart is empty",
	"error.order_placement":        "Order could not be placed",
	"error.order_not_found":        "Order not found",
	"error.transaction_not_found":  "Transaction not found",
	"error.reconcile_not_found":    "Reconciliation issue not found",
	"error.downstream_bad_gateway": "Upstream service returned an error",
	"error.downstream_unavailable": "Upstream service is unavailable",
	"error.persistence_failed":     "Failed to save data",
	"error.operation_failed":       "Operation failed",
	"error.queue_unavailable":      "Queue is unavailable",
	"error.rate_limit_unavailable": "Rate limiter is unavailable",
	"error.too_many_requests":      "Too many requests, please retry in %d seconds",
}
