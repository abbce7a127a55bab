package construct

import (
	"context"
	"fmt"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
	"github.com/baleframe/baleframe/pkg/solid"
)

// PerimeterInput is the complete input of one synthesis run.
type PerimeterInput struct {
	Perimeter  *perimeter.Perimeter
	Assemblies *assembly.Registry
	Materials  material.Resolver

	// RingBeams names the ring beam configs to run around the perimeter.
	RingBeams []assembly.ID

	// HeightLines maps wall indices to the roof line above them. Walls
	// without an entry are flat at the storey height.
	HeightLines map[int]HeightLine

	// Resolve tunes perimeter resolution.
	Resolve perimeter.ResolveOptions
}

func (in PerimeterInput) validate() error {
	if in.Perimeter == nil {
		return errors.New(errors.ErrCodeInvalidInput, "perimeter is required")
	}
	if in.Assemblies == nil {
		return errors.New(errors.ErrCodeInvalidInput, "assembly registry is required")
	}
	if in.Materials == nil {
		return errors.New(errors.ErrCodeInvalidInput, "material resolver is required")
	}
	return nil
}

// BuildPerimeter resolves the perimeter and synthesizes all walls and
// ring beams into one model placed in plan coordinates. Walls that
// cannot be built are recorded as model errors; only structurally
// invalid input fails the call. For staged execution with caching and
// instrumentation use [Builder].
func BuildPerimeter(ctx context.Context, in PerimeterInput) (*model.Model, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := perimeter.Resolve(in.Perimeter, in.Resolve); err != nil {
		return nil, err
	}
	models, err := synthesize(ctx, in, nil, nil)
	if err != nil {
		return nil, err
	}
	return model.Merge(models...), nil
}

// synthesize builds the per-wall and per-beam models of a resolved
// perimeter, each wrapped in its plan transform.
func synthesize(ctx context.Context, in PerimeterInput, kernel solid.Kernel, shapes *solid.Cache) ([]*model.Model, error) {
	p := in.Perimeter
	models := make([]*model.Model, 0, p.Len()+len(in.RingBeams))

	for i := range p.Walls {
		name := fmt.Sprintf("wall-%d", i)
		wm, err := BuildWall(WallContext{
			Perimeter:  p,
			Index:      i,
			Assemblies: in.Assemblies,
			Materials:  in.Materials,
		})
		if err != nil {
			// A wall that cannot be built leaves a hole in the model,
			// not in the report.
			issue := model.NewIssue(fmt.Sprintf("wall %d: %s", i, errors.UserMessage(err)))
			models = append(models, model.Collect(name, model.ErrorPart(issue)))
			continue
		}
		w := p.WallAt(i)
		origin := p.RunOrigin(i)
		models = append(models, model.ApplyTransform(wm, name, geometry.Transform{
			Rotation:    w.Direction.Angle(),
			Translation: geometry.Vec3{X: origin.X, Y: origin.Y},
		}))
	}

	for _, id := range in.RingBeams {
		rb, err := in.Assemblies.RingBeam(id)
		if err != nil {
			return nil, err
		}
		bm, err := BuildRingBeams(ctx, p, rb, in.HeightLines, in.Materials, kernel, shapes)
		if err != nil {
			return nil, err
		}
		models = append(models, bm)
	}

	return models, nil
}
