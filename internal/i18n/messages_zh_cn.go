package i18n

var zhCNMessages = map[string]string{
	"error.bad_request":            "请求参数错误",
	"error.unauthorized":           "未登录或登录已失效",
	"error.forbidden":              "无权访问",
	"error.not_found":              "资源不存在",
	"error.internal_error":         "服务器内部错误",
	"error.already_exists":         "资源已存在",
	"error.token_invalid":          "令牌无效或已过期",
	"error.auth_header_invalid":    "认证头格式错误",
	"error.identity_missing":       "缺少用户身份",
	"error.internal_token":         "内部调用令牌无效",
	"error.user_id_invalid":        "用户 ID 必须为正数",
	"error.quantity_invalid":       "数量必须为正数",
	"error.product_name_invalid":   "商品名称不能为空",
	"error.price_invalid":          "价格不能为负数",
	"error.amount_invalid":         "实收金额不能为负数且最多两位小数",
	"error.card_details_missing":   "卡号和持卡人不能为空",
	"error.upi_id_invalid":         "UPI ID 不能为空且格式应为 name@bank",
	"error.payment_mode_invalid":   "未知的支付方式",
	"error.transaction_settled":    "仅待支付流水可以核验",
	"error.product_not_found":      "商品不存在",
	"error.product_name_exists":    "商品名称已存在",
	"error.insufficient_stock":     "库存不足",
	"error.cart_not_found":         "购物车不存在",
	"error.cart_item_not_found":    "购物车项不存在",
	"error.cart_rejected":          "购物车操作被拒绝",
	"error.cart_empty":             "购物车为空",
	"error.order_placement":        "下单失败",
	"error.order_not_found":        "订单不存在",
	"error.transaction_not_found":  "支付流水不存在",
	"error.reconcile_not_found":    "对账记录不存在",
	"error.downstream_bad_gateway": "上游服务返回错误",
	"error.downstream_unavailable": "上游服务不可用",
	"error.persistence_failed":     "数据保存失败",
	"error.operation_failed":       "操作失败",
	"error.queue_unavailable":      "队列不可用",
	"error.rate_limit_unavailable": "限流服务不可用",
	"error.too_many_requests":      "请求过于频繁，请 %d 秒后重试",
}
