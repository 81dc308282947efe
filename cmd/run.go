/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/numflux/mhdtube/boundary"
	"github.com/numflux/mhdtube/consolidate"
	"github.com/numflux/mhdtube/driver"
	"github.com/numflux/mhdtube/harness"
	"github.com/numflux/mhdtube/params"
	"github.com/numflux/mhdtube/problems"
	"github.com/numflux/mhdtube/solvers/scalar"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one shock-tube problem of the battery",
	Long: `
Integrates a named Riemann problem to its final time on a decomposed domain
and consolidates the per-rank results into one global array,

mhdtube run -c RMHDShockTube2 --nx 512 -p 4`,
	Run: func(cmd *cobra.Command, args []string) {
		rp := processInput(cmd)
		if err := runProblem(cmd, rp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

// Per-problem default CFL and final time, tuned so every battery entry ends
// with a developed wave fan inside the unit domain.
var (
	defCFL = map[string]float64{
		problems.SRShockTube2:   0.25,
		problems.RMHDShockTube3: 0.25,
	}
	defTF = map[string]float64{
		problems.SRShockTube1:       0.1,
		problems.SRShockTube2:       0.1,
		problems.RMHDShockTube3:     0.1,
		problems.RMHDRotationalWave: 0.1,
	}
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("problem", "c", problems.SRShockTube1, "problem to run, one of: "+fmt.Sprint(problems.Names()))
	runCmd.Flags().Int("nx", 256, "number of interior cells in the global domain")
	runCmd.Flags().IntP("ranks", "p", 1, "number of decomposed sub-domains")
	runCmd.Flags().Float64("CFL", 0, "CFL - increase for speedup, decrease for stability (0 = per-problem default)")
	runCmd.Flags().Float64("finalTime", 0, "FinalTime - the target end time for the sim (0 = per-problem default)")
	runCmd.Flags().Float64("gamma", problems.DefaultGamma, "adiabatic index of the gas")
	runCmd.Flags().BoolP("quiet", "q", false, "suppress the per-step progress lines")
	runCmd.Flags().String("limiter", "minmod", "slope limiter: piecewise_constant, minmod")
	runCmd.Flags().String("boundary", "outflow", "physical-edge policy: outflow, periodic, reflecting")
	runCmd.Flags().StringP("inputFile", "I", "", "YAML run-parameters file; explicit flags override it")
	runCmd.Flags().String("dumpDir", "", "persist per-rank records under this directory")
	runCmd.Flags().StringP("outFile", "o", "", "write the consolidated result as text columns")
	runCmd.Flags().String("profile", "", "write a cpu or mem profile")
}

func processInput(cmd *cobra.Command) (rp *params.RunParameters) {
	var (
		err error
	)
	rp = &params.RunParameters{}
	if fn, _ := cmd.Flags().GetString("inputFile"); len(fn) != 0 {
		var data []byte
		if fn, err = homedir.Expand(fn); err == nil {
			data, err = os.ReadFile(fn)
		}
		if err == nil {
			err = rp.Parse(data)
		}
		if err != nil {
			fmt.Printf("unable to read input parameters file: %s\n", err.Error())
			os.Exit(1)
		}
	}
	flagSet := func(name string) bool { return cmd.Flags().Changed(name) }
	if rp.Problem == "" || flagSet("problem") {
		rp.Problem, _ = cmd.Flags().GetString("problem")
	}
	if rp.Nx == 0 || flagSet("nx") {
		rp.Nx, _ = cmd.Flags().GetInt("nx")
	}
	if rp.Ranks == 0 || flagSet("ranks") {
		rp.Ranks, _ = cmd.Flags().GetInt("ranks")
	}
	if rp.CFL == 0 || flagSet("CFL") {
		rp.CFL, _ = cmd.Flags().GetFloat64("CFL")
	}
	if rp.CFL == 0 {
		rp.CFL = defaultFor(defCFL, rp.Problem, 0.4)
	}
	if rp.FinalTime == 0 || flagSet("finalTime") {
		rp.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
	}
	if rp.FinalTime == 0 {
		rp.FinalTime = defaultFor(defTF, rp.Problem, 0.2)
	}
	if rp.Gamma == 0 || flagSet("gamma") {
		rp.Gamma, _ = cmd.Flags().GetFloat64("gamma")
	}
	if flagSet("quiet") {
		rp.Quiet, _ = cmd.Flags().GetBool("quiet")
	}
	if rp.Limiter == "" || flagSet("limiter") {
		rp.Limiter, _ = cmd.Flags().GetString("limiter")
	}
	if rp.Boundary == "" || flagSet("boundary") {
		rp.Boundary, _ = cmd.Flags().GetString("boundary")
	}
	if !rp.Quiet {
		rp.Print()
	}
	return
}

func defaultFor(table map[string]float64, problem string, fallback float64) float64 {
	if v, ok := table[problem]; ok {
		return v
	}
	return fallback
}

func runProblem(cmd *cobra.Command, rp *params.RunParameters) error {
	if prof, _ := cmd.Flags().GetString("profile"); prof != "" {
		switch prof {
		case "cpu":
			defer profile.Start(profile.CPUProfile).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile).Stop()
		default:
			return fmt.Errorf("unknown profile mode %q", prof)
		}
	}

	is, err := problems.Build(rp.Problem, rp.Left, rp.Right, rp.Gamma)
	if err != nil {
		return err
	}
	limiter, err := scalar.ParseLimiter(rp.Limiter)
	if err != nil {
		return err
	}
	policy, err := boundary.ParsePolicy(rp.Boundary)
	if err != nil {
		return err
	}

	var store consolidate.Store
	if dir, _ := cmd.Flags().GetString("dumpDir"); dir != "" {
		if dir, err = homedir.Expand(dir); err != nil {
			return err
		}
		if store, err = consolidate.NewFileStore(dir); err != nil {
			return err
		}
	}

	P, err := harness.Run(context.Background(), harness.Config{
		Problem:   is,
		NumRanks:  rp.Ranks,
		Nx:        rp.Nx,
		CFL:       rp.CFL,
		FinalTime: rp.FinalTime,
		Quiet:     rp.Quiet,
		Policy:    policy,
		NewSolver: func() driver.Solver { return scalar.New(limiter) },
		Store:     store,
		Log:       &log,
	})
	if err != nil {
		return err
	}

	if fn, _ := cmd.Flags().GetString("outFile"); fn != "" {
		if fn, err = homedir.Expand(fn); err != nil {
			return err
		}
		return writeColumns(fn, P)
	}
	return nil
}

// writeColumns writes the global result as gnuplot-friendly text: the cell
// center in the unit domain followed by one column per component.
func writeColumns(fn string, P *mat.Dense) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, cols := P.Dims()
	for i := 0; i < rows; i++ {
		fmt.Fprintf(f, "%12.8f", (float64(i)+0.5)/float64(rows))
		for q := 0; q < cols; q++ {
			fmt.Fprintf(f, " %14.8e", P.At(i, q))
		}
		fmt.Fprintln(f)
	}
	return nil
}
