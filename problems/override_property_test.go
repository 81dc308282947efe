package problems

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestOverrideIsKeywiseMerge checks, over random override subsets, that
// applying an override changes exactly the named keys and nothing else.
func TestOverrideIsKeywiseMerge(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genState := gopter.CombineGens(
		gen.Float64Range(1e-6, 100),
		gen.Float64Range(1e-6, 1000),
		gen.Float64Range(-0.9, 0.9),
		gen.Float64Range(-10, 10),
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	)

	properties.Property("override changes only the named keys", prop.ForAll(
		func(vals []interface{}) bool {
			rho := vals[0].(float64)
			pre := vals[1].(float64)
			vx := vals[2].(float64)
			bx := vals[3].(float64)
			useRho, usePre, useV, useB := vals[4].(bool), vals[5].(bool), vals[6].(bool), vals[7].(bool)

			ov := Override{}
			if useRho {
				ov["Rho"] = rho
			}
			if usePre {
				ov["Pre"] = pre
			}
			if useV {
				ov["v"] = []float64{vx, 0, 0}
			}
			if useB {
				ov["B"] = []float64{bx, 0, 0}
			}

			base, err := Build(RMHDShockTube2, nil, nil, 0)
			if err != nil {
				return false
			}
			is, err := Build(RMHDShockTube2, ov, nil, 0)
			if err != nil {
				return false
			}

			if useRho && is.Left.Rho != rho || !useRho && is.Left.Rho != base.Left.Rho {
				return false
			}
			if usePre && is.Left.Pre != pre || !usePre && is.Left.Pre != base.Left.Pre {
				return false
			}
			if useV && is.Left.V != [3]float64{vx, 0, 0} || !useV && is.Left.V != base.Left.V {
				return false
			}
			if useB && is.Left.B != [3]float64{bx, 0, 0} || !useB && is.Left.B != base.Left.B {
				return false
			}
			// The right state never participates in a left-side override.
			return is.Right == base.Right
		},
		genState,
	))

	properties.TestingRun(t)
}
