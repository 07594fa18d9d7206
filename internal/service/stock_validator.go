package service

import "github.com/google/uuid"

// LineRequest is a desired (product, quantity) pair.
type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// StockReport is the outcome of ValidateStock.
type StockReport struct {
	Valid     bool
	Shortages []Shortage
}

// ValidateStock compares the requested quantities with a stock snapshot.
// Lines for the same product are summed first; products missing from the
// snapshot have nothing available. Shortages follow the first appearance of
// each product in items. It never mutates anything.
func ValidateStock(items []LineRequest, stock map[uuid.UUID]int) StockReport {
	requested := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if _, seen := requested[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
	}

	report := StockReport{Valid: true, Shortages: []Shortage{}}
	for _, id := range order {
		available := stock[id]
		if requested[id] > available {
			report.Valid = false
			report.Shortages = append(report.Shortages, Shortage{
				ProductID: id,
				Requested: requested[id],
				Available: available,
			})
		}
	}
	return report
}
