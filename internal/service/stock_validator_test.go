package service_test

import (
	"testing"

	"bclick/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateStock(t *testing.T) {
	a, b, unknown := uuid.New(), uuid.New(), uuid.New()
	stock := map[uuid.UUID]int{a: 5, b: 0}

	tests := []struct {
		name      string
		items     []service.LineRequest
		valid     bool
		shortages []service.Shortage
	}{
		{
			name:      "within stock",
			items:     []service.LineRequest{{ProductID: a, Quantity: 5}},
			valid:     true,
			shortages: []service.Shortage{},
		},
		{
			name:      "empty request is valid",
			items:     nil,
			valid:     true,
			shortages: []service.Shortage{},
		},
		{
			name:      "over stock",
			items:     []service.LineRequest{{ProductID: a, Quantity: 6}},
			shortages: []service.Shortage{{ProductID: a, Requested: 6, Available: 5}},
		},
		{
			name:      "duplicates are summed",
			items:     []service.LineRequest{{ProductID: a, Quantity: 3}, {ProductID: a, Quantity: 3}},
			shortages: []service.Shortage{{ProductID: a, Requested: 6, Available: 5}},
		},
		{
			name:      "unknown product has nothing available",
			items:     []service.LineRequest{{ProductID: unknown, Quantity: 1}},
			shortages: []service.Shortage{{ProductID: unknown, Requested: 1, Available: 0}},
		},
		{
			name: "shortages keep request order",
			items: []service.LineRequest{
				{ProductID: b, Quantity: 1},
				{ProductID: a, Quantity: 2},
				{ProductID: unknown, Quantity: 4},
			},
			shortages: []service.Shortage{
				{ProductID: b, Requested: 1, Available: 0},
				{ProductID: unknown, Requested: 4, Available: 0},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := service.ValidateStock(tc.items, stock)
			assert.Equal(t, tc.valid, report.Valid)
			assert.Equal(t, tc.shortages, report.Shortages)
		})
	}
}

func TestValidateStock_DoesNotMutateSnapshot(t *testing.T) {
	a := uuid.New()
	stock := map[uuid.UUID]int{a: 2}
	service.ValidateStock([]service.LineRequest{{ProductID: a, Quantity: 9}}, stock)
	assert.Equal(t, map[uuid.UUID]int{a: 2}, stock)
}
