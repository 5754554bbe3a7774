package entityref_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
)

func newRegistry() *entityref.Registry {
	registry := entityref.NewRegistry()

	registry.Register("order", func(id uint) (*entityref.Entity, error) {
		if id == 42 {
			return &entityref.Entity{ID: 42, Type: "order", DisplayName: "Order #42 (PENDING)"}, nil
		}
		return nil, nil
	})

	return registry
}

func TestRegistryResolve(t *testing.T) {
	registry := newRegistry()

	entity, err := registry.Resolve("order", 42)
	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, uint(42), entity.ID)
	assert.Equal(t, "order", entity.Type)
	assert.Equal(t, "Order #42 (PENDING)", entity.DisplayName)
}

func TestRegistryResolveMissingRecord(t *testing.T) {
	registry := newRegistry()

	entity, err := registry.Resolve("order", 7)
	require.NoError(t, err)
	assert.Nil(t, entity)
}

func TestRegistryResolveUnknownTag(t *testing.T) {
	registry := newRegistry()

	entity, err := registry.Resolve("invoice", 42)
	require.NoError(t, err)
	assert.Nil(t, entity)
}

func TestRegistryResolveInvalidPair(t *testing.T) {
	registry := newRegistry()

	_, err := registry.Resolve("", 42)
	assert.Error(t, err)

	_, err = registry.Resolve("order", 0)
	assert.Error(t, err)
}

func TestRegistryResolverFailurePropagates(t *testing.T) {
	registry := entityref.NewRegistry()

	registry.Register("order", func(id uint) (*entityref.Entity, error) {
		return nil, fmt.Errorf("connection refused")
	})

	_, err := registry.Resolve("order", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRegistryRegistered(t *testing.T) {
	registry := newRegistry()

	assert.True(t, registry.Registered("order"))
	assert.False(t, registry.Registered("invoice"))
}
