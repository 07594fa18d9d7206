package service_test

import (
	"testing"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate(t *testing.T) {
	w := newWorld(t)

	_, err := w.categorySvc.Create(w.ctx, w.client, dto.CreateCategoryRequest{Name: "Drinks"})
	assert.ErrorIs(t, err, service.ErrForbidden)

	c, err := w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "  Drinks "})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", c.Name)
	assert.Equal(t, "shown", c.Status)

	_, err = w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "drinks"})
	var de *service.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, service.KindDuplicate, de.Kind)

	// names are unique per supplier only
	rival := w.addUser(t, "idp|rival", model.RoleSupplier, "Rival")
	_, err = w.categorySvc.Create(w.ctx, rival, dto.CreateCategoryRequest{Name: "Drinks"})
	assert.NoError(t, err)
}

func TestCategoryUpdate(t *testing.T) {
	w := newWorld(t)
	drinks, err := w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	_, err = w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "Snacks"})
	require.NoError(t, err)
	id := uuid.MustParse(drinks.ID)

	taken := "Snacks"
	_, err = w.categorySvc.Update(w.ctx, w.supplier, id, dto.UpdateCategoryRequest{Name: &taken})
	var de *service.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, service.KindDuplicate, de.Kind)

	same, hidden := "Drinks", "hidden"
	got, err := w.categorySvc.Update(w.ctx, w.supplier, id, dto.UpdateCategoryRequest{Name: &same, Status: &hidden})
	require.NoError(t, err)
	assert.Equal(t, "hidden", got.Status)

	_, err = w.categorySvc.Update(w.ctx, w.client, id, dto.UpdateCategoryRequest{Status: &hidden})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCategoryList_HiddenOnlyForOwner(t *testing.T) {
	w := newWorld(t)
	_, err := w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	_, err = w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "Seasonal", Status: "hidden"})
	require.NoError(t, err)
	rival := w.addUser(t, "idp|rival", model.RoleSupplier, "Rival")
	supplierID := w.supplier.ID

	tests := []struct {
		name       string
		actor      service.Actor
		supplierID *uuid.UUID
		want       int
	}{
		{"owner, implicit", w.supplier, nil, 2},
		{"owner, explicit", w.supplier, &supplierID, 2},
		{"client", w.client, &supplierID, 1},
		{"other supplier", rival, &supplierID, 1},
		{"admin", w.admin, &supplierID, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := w.categorySvc.List(w.ctx, tc.actor, tc.supplierID)
			require.NoError(t, err)
			assert.Len(t, list, tc.want)
		})
	}
}

func TestCategoryDelete(t *testing.T) {
	w := newWorld(t)
	c, err := w.categorySvc.Create(w.ctx, w.supplier, dto.CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	id := uuid.MustParse(c.ID)

	p := w.addProduct(t, "Soda", "7790001000042", "1", 1)
	p.CategoryID = &id
	require.NoError(t, w.products.UpdateFieldsTx(nil, p))

	assert.ErrorIs(t, w.categorySvc.Delete(w.ctx, w.supplier, id), service.ErrCategoryNotEmpty)

	p.CategoryID = nil
	require.NoError(t, w.products.UpdateFieldsTx(nil, p))
	assert.ErrorIs(t, w.categorySvc.Delete(w.ctx, w.client, id), service.ErrForbidden)
	require.NoError(t, w.categorySvc.Delete(w.ctx, w.supplier, id))
	assert.ErrorIs(t, w.categorySvc.Delete(w.ctx, w.supplier, id), service.ErrNotFound)
}
