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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/numflux/mhdtube/problems"
)

// problemsCmd represents the problems command
var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the battery's problem presets and their states",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range problems.Names() {
			is, err := problems.Build(name, nil, nil, 0)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				continue
			}
			fmt.Printf("%s:\n", name)
			fmt.Printf("  L: Rho %-8g Pre %-8g v %v B %v\n", is.Left.Rho, is.Left.Pre, is.Left.V, is.Left.B)
			fmt.Printf("  R: Rho %-8g Pre %-8g v %v B %v\n", is.Right.Rho, is.Right.Pre, is.Right.V, is.Right.B)
		}
	},
}

func init() {
	rootCmd.AddCommand(problemsCmd)
}
