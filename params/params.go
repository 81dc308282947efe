// Package params holds the YAML run-parameters file of the harness.
package params

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/numflux/mhdtube/problems"
)

// RunParameters is one battery entry, read from a YAML input file.
type RunParameters struct {
	Title     string  `yaml:"Title"`
	Problem   string  `yaml:"Problem"`
	CFL       float64 `yaml:"CFL"`
	FinalTime float64 `yaml:"FinalTime"`
	Nx        int     `yaml:"Nx"`
	Ranks     int     `yaml:"Ranks"`
	Gamma     float64 `yaml:"Gamma"`
	Quiet     bool    `yaml:"Quiet"`
	Boundary  string  `yaml:"Boundary"`
	Limiter   string  `yaml:"Limiter"`
	// Left and Right partially override the preset's states, key by key.
	Left  problems.Override `yaml:"Left"`
	Right problems.Override `yaml:"Right"`
}

func (rp *RunParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t= Problem\n", rp.Problem)
	fmt.Printf("%8.5f\t\t= CFL\n", rp.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", rp.FinalTime)
	fmt.Printf("[%d]\t\t\t= Nx\n", rp.Nx)
	fmt.Printf("[%d]\t\t\t= Ranks\n", rp.Ranks)
	if rp.Gamma != 0 {
		fmt.Printf("%8.5f\t\t= Gamma\n", rp.Gamma)
	}
	if len(rp.Left) != 0 {
		fmt.Printf("Left = %v\n", rp.Left)
	}
	if len(rp.Right) != 0 {
		fmt.Printf("Right = %v\n", rp.Right)
	}
}
