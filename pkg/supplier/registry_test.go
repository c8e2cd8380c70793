package supplier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier/mock"
)

func TestRegistry_Register(t *testing.T) {
	registry := supplier.NewRegistry()

	registry.Register(mock.New("vidaxl", "vidaXL"))

	got, err := registry.Get("vidaxl")
	require.NoError(t, err, "supplier should be registered")
	assert.Equal(t, "vidaxl", got.Name())
	assert.Equal(t, []string{"vidaXL"}, got.Vendors())
}

func TestRegistry_Register_Override(t *testing.T) {
	registry := supplier.NewRegistry()

	// Register first supplier
	registry.Register(mock.New("vidaxl"))
	assert.Equal(t, 1, registry.Count())

	// Register again with same name should override
	registry.Register(mock.New("vidaxl"))
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_Get_NotFound(t *testing.T) {
	registry := supplier.NewRegistry()

	_, err := registry.Get("nonexistent")
	assert.Error(t, err, "should return error for unregistered supplier")
	assert.True(t, errors.Is(err, supplier.ErrSupplierNotFound))
}

func TestRegistry_Names(t *testing.T) {
	registry := supplier.NewRegistry()

	registry.Register(mock.New("vidaxl"))
	registry.Register(mock.New("dropxl"))

	names := registry.Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "vidaxl")
	assert.Contains(t, names, "dropxl")
}

func TestRegistry_Count(t *testing.T) {
	registry := supplier.NewRegistry()
	assert.Equal(t, 0, registry.Count())

	registry.Register(mock.New("vidaxl"))
	assert.Equal(t, 1, registry.Count())

	registry.Register(mock.New("dropxl"))
	assert.Equal(t, 2, registry.Count())
}

func TestRegistry_ListAllOrders(t *testing.T) {
	registry := supplier.NewRegistry()

	vidaxl := mock.New("vidaxl", "vidaXL")
	vidaxl.Seed(supplier.Order{ID: 1, Reference: "#362673", Status: supplier.StatusSent})
	dropxl := mock.New("dropxl", "Bestway")
	dropxl.Seed(
		supplier.Order{ID: 2, Reference: "#362674", Status: supplier.StatusSent},
		supplier.Order{ID: 3, Reference: "#362675", Status: supplier.StatusDraft},
	)

	registry.Register(vidaxl)
	registry.Register(dropxl)

	ctx := context.Background()
	results, errs := registry.ListAllOrders(ctx, time.Now().AddDate(0, 0, -7))

	assert.Empty(t, errs, "should have no errors from mock suppliers")
	require.Len(t, results, 2)
	assert.Len(t, results["vidaxl"], 1)
	assert.Len(t, results["dropxl"], 2)
}

func TestRegistry_ListAllOrders_Empty(t *testing.T) {
	registry := supplier.NewRegistry()

	ctx := context.Background()
	results, errs := registry.ListAllOrders(ctx, time.Now())

	assert.Empty(t, results, "should return empty results for empty registry")
	assert.NotEmpty(t, errs, "should return error for empty registry")
}

func TestRegistry_ListAllOrders_PartialFailure(t *testing.T) {
	registry := supplier.NewRegistry()

	vidaxl := mock.New("vidaxl")
	vidaxl.Seed(supplier.Order{ID: 1, Reference: "#362673"})
	dropxl := mock.New("dropxl")
	dropxl.ListErr = errors.New("portal down")

	registry.Register(vidaxl)
	registry.Register(dropxl)

	ctx := context.Background()
	results, errs := registry.ListAllOrders(ctx, time.Now().AddDate(0, 0, -7))

	// the healthy supplier's orders still come back
	assert.Len(t, results["vidaxl"], 1)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "dropxl")
	assert.Contains(t, errs[0].Error(), "portal down")
}
