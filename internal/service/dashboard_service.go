package service

import (
	"time"

	"go-warehouse-ws/internal/repository"
)

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
}

type DashboardStats struct {
	TotalProducts   int `json:"total_products"`
	TotalStock      int `json:"total_stock"`
	LowStockCount   int `json:"low_stock_count"`
	PendingExchange int `json:"pending_exchange"`
}

type dashboardService struct {
	itemRepo     repository.ItemRepository
	txRepo       repository.TransactionRepository
	exchangeRepo repository.ExchangeRepository
}

func NewDashboardService(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository, exchangeRepo repository.ExchangeRepository) DashboardService {
	return &dashboardService{itemRepo: itemRepo, txRepo: txRepo, exchangeRepo: exchangeRepo}
}

// GetStats aggregates stock per product code before applying the low-stock
// threshold, so an item split across locations is counted once.
func (s *dashboardService) GetStats() (*DashboardStats, error) {
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}

	type codeTotals struct {
		stock    int
		minStock int
	}
	totals := make(map[string]*codeTotals)
	totalStock := 0
	for _, item := range items {
		totalStock += item.Stock
		entry, ok := totals[item.Code]
		if !ok {
			entry = &codeTotals{}
			totals[item.Code] = entry
		}
		entry.stock += item.Stock
		if item.MinStock > entry.minStock {
			entry.minStock = item.MinStock
		}
	}

	lowStock := 0
	for _, entry := range totals {
		if entry.minStock > 0 && entry.stock < entry.minStock {
			lowStock++
		}
	}

	pending, err := s.exchangeRepo.FindPending()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:   len(totals),
		TotalStock:      totalStock,
		LowStockCount:   lowStock,
		PendingExchange: len(pending),
	}, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetStockMovement(startDate, endDate)
}
