package services

import "riverbird-standalone/internal/models"

// roleDependencies declares which roles must be Ready before a role may
// start. The shape is fixed: meta stands alone, compute and frontend both
// wait on meta. Kept as a table rather than hard-coded phases so the start
// order generalizes to a topological ordering if a role is ever added.
var roleDependencies = map[models.RoleKind][]models.RoleKind{
	models.RoleMeta:     nil,
	models.RoleCompute:  {models.RoleMeta},
	models.RoleFrontend: {models.RoleMeta},
}

/**
 * Compute the start order as dependency layers
 * @returns {[][]models.RoleKind} Layers in start order; roles within one
 * layer have no ordering between them and start concurrently
 * @description
 * - Plain Kahn layering over the declared dependency table
 * - With the fixed role set this yields [[meta], [compute, frontend]]
 */
func StartOrder() [][]models.RoleKind {
	remaining := make(map[models.RoleKind]bool, len(models.AllRoles))
	for _, r := range models.AllRoles {
		remaining[r] = true
	}

	var layers [][]models.RoleKind
	started := make(map[models.RoleKind]bool)
	for len(remaining) > 0 {
		var layer []models.RoleKind
		for _, r := range models.AllRoles {
			if !remaining[r] {
				continue
			}
			satisfied := true
			for _, dep := range roleDependencies[r] {
				if !started[dep] {
					satisfied = false
					break
				}
			}
			if satisfied {
				layer = append(layer, r)
			}
		}
		if len(layer) == 0 {
			// Cycles are impossible with the fixed table; bail out
			// rather than loop forever if it is ever edited badly.
			break
		}
		for _, r := range layer {
			started[r] = true
			delete(remaining, r)
		}
		layers = append(layers, layer)
	}
	return layers
}

// StopOrder is the exact reverse of the start order, flattened: dependents
// are stopped (and awaited) before the roles they depend on.
func StopOrder() []models.RoleKind {
	layers := StartOrder()
	var order []models.RoleKind
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		for j := len(layer) - 1; j >= 0; j-- {
			order = append(order, layer[j])
		}
	}
	return order
}
