package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbird-standalone/internal/models"
)

func TestStartOrderLayers(t *testing.T) {
	layers := StartOrder()
	require.Len(t, layers, 2)
	assert.Equal(t, []models.RoleKind{models.RoleMeta}, layers[0])
	assert.ElementsMatch(t, []models.RoleKind{models.RoleCompute, models.RoleFrontend}, layers[1])
}

func TestStopOrderReversesStartOrder(t *testing.T) {
	order := StopOrder()
	require.Len(t, order, 3)

	// Meta goes down last; every dependent precedes it.
	assert.Equal(t, models.RoleMeta, order[len(order)-1])
	assert.ElementsMatch(t, []models.RoleKind{models.RoleCompute, models.RoleFrontend}, order[:2])
}
