package model

import "github.com/shopspring/decimal"

// ProductStats is one row of a sales ranking: how many units of a product
// were sold and the revenue they generated, both computed from the same
// order scan that produced the ranking.
type ProductStats struct {
	ProductName  string          `json:"productName"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// ProductProfit extends ProductStats with the profit figure used to rank
// the most profitable products.
type ProductProfit struct {
	ProductStats
	Profit decimal.Decimal `json:"profit"`
}
