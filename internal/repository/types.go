package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
}

// TransactionListFilter 查询支付流水列表的过滤条件
type TransactionListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	OrderID  uint
	Mode     string
	Status   string
}

// ReconciliationListFilter 查询对账记录列表的过滤条件
type ReconciliationListFilter struct {
	Page     int
	PageSize int
	Status   string
	Reason   string
}
