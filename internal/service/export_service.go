package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"go-warehouse-ws/internal/repository"
)

type ExportService interface {
	ExportInventory() (*bytes.Buffer, error)
	ExportTransactions() (*bytes.Buffer, error)
	ExportBomGuides() (*bytes.Buffer, error)
}

type exportService struct {
	itemRepo repository.ItemRepository
	txRepo   repository.TransactionRepository
	bomRepo  repository.BomRepository
}

func NewExportService(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository, bomRepo repository.BomRepository) ExportService {
	return &exportService{itemRepo: itemRepo, txRepo: txRepo, bomRepo: bomRepo}
}

const exportSheet = "Sheet1"

func writeHeaders(f *excelize.File, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
}

func writeRow(f *excelize.File, rowNo int, values []interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNo)
		f.SetCellValue(exportSheet, cell, v)
	}
}

func (s *exportService) ExportInventory() (*bytes.Buffer, error) {
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeHeaders(f, []string{"Code", "Name", "Category", "Manufacturer", "Stock", "MinStock", "Unit", "Location", "BoxSize"})
	for i, item := range items {
		writeRow(f, i+2, []interface{}{
			item.Code, item.Name, item.Category, item.Manufacturer,
			item.Stock, item.MinStock, item.Unit, item.Location, item.BoxSize,
		})
	}

	return f.WriteToBuffer()
}

func (s *exportService) ExportTransactions() (*bytes.Buffer, error) {
	transactions, err := s.txRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeHeaders(f, []string{"Date", "Type", "ItemCode", "ItemName", "Quantity", "FromLocation", "ToLocation", "Reason", "Memo", "User"})
	for i, t := range transactions {
		username := ""
		if t.User != nil {
			username = t.User.Username
		}
		writeRow(f, i+2, []interface{}{
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			string(t.Type), t.ItemCode, t.ItemName, t.Quantity,
			t.FromLocation, t.ToLocation, t.Reason, t.Memo, username,
		})
	}

	return f.WriteToBuffer()
}

func (s *exportService) ExportBomGuides() (*bytes.Buffer, error) {
	lines, err := s.bomRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeHeaders(f, []string{"GuideName", "ItemCode", "RequiredQuantity"})
	for i, line := range lines {
		writeRow(f, i+2, []interface{}{line.GuideName, line.ItemCode, line.RequiredQuantity})
	}

	return f.WriteToBuffer()
}

// ExportFilename builds the attachment name with a date suffix.
func ExportFilename(prefix, date string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, date)
}
