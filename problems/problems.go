package problems

import (
	"fmt"
	"sort"
)

// FieldState is one side of a Riemann problem: a constant primitive state.
type FieldState struct {
	Rho float64    // mass density, > 0
	Pre float64    // gas pressure, > 0
	V   [3]float64 // three-velocity, |V| < 1 for the relativistic tubes
	B   [3]float64 // magnetic field
}

// InitialState is a fully populated Riemann problem: two constant states
// separated by a single discontinuity, plus the adiabatic index of the gas.
// It is immutable after Build and consumed once to seed the field array.
type InitialState struct {
	Name  string
	Left  FieldState
	Right FieldState
	Gamma float64
}

// Override is a partial field state keyed by the legacy state-variable names.
// Recognized keys: "Rho", "Pre" (scalars), "v", "B" (3-vectors). Values for
// the vector keys may be [3]float64, []float64 of length 3, or []interface{}
// of length 3 (the shape YAML decoding produces).
type Override map[string]interface{}

const DefaultGamma = 1.4

// Preset names, matching the canonical shock-tube battery.
const (
	SRShockTube1       = "SRShockTube1"
	SRShockTube2       = "SRShockTube2"
	RMHDShockTube1     = "RMHDShockTube1"
	RMHDShockTube2     = "RMHDShockTube2"
	RMHDShockTube3     = "RMHDShockTube3"
	RMHDShockTube4     = "RMHDShockTube4"
	RMHDContactWave    = "RMHDContactWave"
	RMHDRotationalWave = "RMHDRotationalWave"
)

// presets holds the literature left/right states for each named tube. These
// are reference fixtures and must not be touched: tests compare them against
// the published values exactly.
var presets = map[string]struct{ L, R FieldState }{
	// Problem 1 of Marti & Muller, with the left pressure set apart from zero.
	SRShockTube1: {
		L: FieldState{Rho: 10.0, Pre: 13.33},
		R: FieldState{Rho: 1.0, Pre: 0.01},
	},
	// Problem 2 of Marti & Muller. Very challenging, still fails many codes.
	SRShockTube2: {
		L: FieldState{Rho: 1.0, Pre: 1000.00},
		R: FieldState{Rho: 1.0, Pre: 0.01},
	},
	RMHDShockTube1: {
		L: FieldState{Rho: 1.000, Pre: 1.0, B: [3]float64{0.5, 1.0, 0.0}},
		R: FieldState{Rho: 0.125, Pre: 0.1, B: [3]float64{0.5, -1.0, 0.0}},
	},
	RMHDShockTube2: {
		L: FieldState{Rho: 1.08, Pre: 0.95, V: [3]float64{0.40, 0.3, 0.2}, B: [3]float64{2.0, 0.3, 0.3}},
		R: FieldState{Rho: 0.95, Pre: 1.00, V: [3]float64{-0.45, -0.2, 0.2}, B: [3]float64{2.0, -0.7, 0.5}},
	},
	// Ultra-relativistic counter-streaming flows.
	RMHDShockTube3: {
		L: FieldState{Rho: 1.00, Pre: 0.1, V: [3]float64{0.999, 0.0, 0.0}, B: [3]float64{10.0, 7.0, 7.0}},
		R: FieldState{Rho: 1.00, Pre: 0.1, V: [3]float64{-0.999, 0.0, 0.0}, B: [3]float64{10.0, -7.0, -7.0}},
	},
	RMHDShockTube4: {
		L: FieldState{Rho: 1.0, Pre: 5.0, V: [3]float64{0.0, 0.3, 0.4}, B: [3]float64{1.0, 6.0, 2.0}},
		R: FieldState{Rho: 0.9, Pre: 5.3, V: [3]float64{0.0, 0.0, 0.0}, B: [3]float64{1.0, 5.0, 2.0}},
	},
	// Only the density jumps; everything else is continuous.
	RMHDContactWave: {
		L: FieldState{Rho: 1.0, Pre: 1.0, V: [3]float64{0.0, 0.7, 0.2}, B: [3]float64{5.0, 1.0, 0.5}},
		R: FieldState{Rho: 0.1, Pre: 1.0, V: [3]float64{0.0, 0.7, 0.2}, B: [3]float64{5.0, 1.0, 0.5}},
	},
	RMHDRotationalWave: {
		L: FieldState{Rho: 1.0, Pre: 1.0, V: [3]float64{0.377347, -0.482389, 0.424190}, B: [3]float64{2.4, 1.0, -1.600000}},
		R: FieldState{Rho: 1.0, Pre: 1.0, V: [3]float64{0.400000, -0.300000, 0.500000}, B: [3]float64{2.4, -0.1, -2.178213}},
	},
}

// Names returns the preset names in sorted order.
func Names() (names []string) {
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Build assembles an InitialState from a named preset, merging the caller's
// partial overrides key-by-key into each side. Unrecognized override keys and
// non-positive density or pressure fail with a ConfigurationError. A gamma of
// zero selects DefaultGamma.
func Build(preset string, left, right Override, gamma float64) (is *InitialState, err error) {
	def, ok := presets[preset]
	if !ok {
		return nil, &ConfigurationError{Key: preset, Reason: "unknown preset"}
	}
	if gamma == 0 {
		gamma = DefaultGamma
	}
	is = &InitialState{
		Name:  preset,
		Left:  def.L,
		Right: def.R,
		Gamma: gamma,
	}
	if err = merge(&is.Left, left); err != nil {
		return nil, err
	}
	if err = merge(&is.Right, right); err != nil {
		return nil, err
	}
	if err = validate(&is.Left); err != nil {
		return nil, err
	}
	if err = validate(&is.Right); err != nil {
		return nil, err
	}
	return
}

func merge(fs *FieldState, ov Override) (err error) {
	for key, val := range ov {
		switch key {
		case "Rho":
			if fs.Rho, err = asScalar(key, val); err != nil {
				return
			}
		case "Pre":
			if fs.Pre, err = asScalar(key, val); err != nil {
				return
			}
		case "v":
			if fs.V, err = asVector(key, val); err != nil {
				return
			}
		case "B":
			if fs.B, err = asVector(key, val); err != nil {
				return
			}
		default:
			return &ConfigurationError{Key: key, Reason: "not a recognized field name"}
		}
	}
	return nil
}

func validate(fs *FieldState) error {
	if fs.Rho <= 0 {
		return &ConfigurationError{Key: "Rho", Reason: fmt.Sprintf("must be positive, got %g", fs.Rho)}
	}
	if fs.Pre <= 0 {
		return &ConfigurationError{Key: "Pre", Reason: fmt.Sprintf("must be positive, got %g", fs.Pre)}
	}
	return nil
}

func asScalar(key string, val interface{}) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("want a scalar, got %T", val)}
}

func asVector(key string, val interface{}) (vec [3]float64, err error) {
	switch v := val.(type) {
	case [3]float64:
		return v, nil
	case []float64:
		if len(v) != 3 {
			break
		}
		copy(vec[:], v)
		return vec, nil
	case []interface{}:
		if len(v) != 3 {
			break
		}
		for i, c := range v {
			if vec[i], err = asScalar(key, c); err != nil {
				return
			}
		}
		return vec, nil
	}
	return vec, &ConfigurationError{Key: key, Reason: fmt.Sprintf("want a 3-vector, got %v", val)}
}
