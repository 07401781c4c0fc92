package exporter

import (
	"errors"
	"fmt"

	"github.com/wildstar-studios/auto-exporter/internal/planner"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// stageLocalOrigin moves a unit's members so the unit exports around the
// cursor. Parent units are translated as a whole so their centroid lands on
// the cursor; layer and object members are each placed on the cursor. Scene
// units are never moved. The returned restore func puts back every location
// that was recorded, and must be called even when err is non-nil.
func stageLocalOrigin(stage scene.Stage, u planner.Unit, cursor scene.Vec3) (restore func() error, err error) {
	saved := make(map[scene.ID]scene.Vec3, len(u.Members))
	order := make([]scene.ID, 0, len(u.Members))
	restore = func() error {
		var errs []error
		for _, id := range order {
			if err := stage.SetLocation(id, saved[id]); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	if u.Kind == planner.UnitScene || len(u.Members) == 0 {
		return restore, nil
	}
	for _, id := range u.Members {
		if _, ok := saved[id]; ok {
			continue
		}
		saved[id] = stage.Location(id)
		order = append(order, id)
	}

	target := func(id scene.ID) scene.Vec3 { return cursor }
	if u.Kind == planner.UnitParent {
		var sum scene.Vec3
		for _, id := range order {
			sum = sum.Add(saved[id])
		}
		offset := cursor.Sub(sum.Scale(1 / float64(len(order))))
		target = func(id scene.ID) scene.Vec3 { return saved[id].Add(offset) }
	}

	for _, id := range order {
		if err := stage.SetLocation(id, target(id)); err != nil {
			return restore, fmt.Errorf("moving %d to local origin: %w", id, err)
		}
	}
	return restore, nil
}
