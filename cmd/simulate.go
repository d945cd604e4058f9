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
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/goswe/InputParameters"
	"github.com/notargets/goswe/sim"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a shallow water simulation and write snapshot files",
	Long: `
Runs the dimensionally split shallow water solver on a rectangular grid,
decomposed into a 2D process grid of blocks. Snapshots of water height
and momentum are written at evenly spaced checkpoints.

goswe simulate -x 100 -y 100 -e 5 -n 10 -o ./out/radial`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := processSimInput(cmd)
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		if err := sim.Run(ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processSimInput(cmd *cobra.Command) (ip *InputParameters.InputParametersSWE) {
	ip = InputParameters.NewDefaults()
	if deckFile, _ := cmd.Flags().GetString("input-file"); len(deckFile) != 0 {
		data, err := ioutil.ReadFile(deckFile)
		if err != nil {
			fmt.Printf("error: unable to read input file [%s]: %s\n", deckFile, err.Error())
			os.Exit(1)
		}
		if err = ip.Parse(data); err != nil {
			fmt.Printf("error: unable to parse input file [%s]: %s\n", deckFile, err.Error())
			os.Exit(1)
		}
	}
	// Command line options override the deck
	if cmd.Flags().Changed("simulation-duration") {
		ip.SimulationDuration, _ = cmd.Flags().GetFloat64("simulation-duration")
	}
	if cmd.Flags().Changed("checkpoint-count") {
		ip.CheckpointCount, _ = cmd.Flags().GetInt("checkpoint-count")
	}
	if cmd.Flags().Changed("resolution-horizontal") {
		ip.ResolutionX, _ = cmd.Flags().GetInt("resolution-horizontal")
	}
	if cmd.Flags().Changed("resolution-vertical") {
		ip.ResolutionY, _ = cmd.Flags().GetInt("resolution-vertical")
	}
	if cmd.Flags().Changed("output-basepath") {
		ip.OutputBasePath, _ = cmd.Flags().GetString("output-basepath")
	}
	if cmd.Flags().Changed("flux") {
		ip.FluxType, _ = cmd.Flags().GetString("flux")
	}
	if cmd.Flags().Changed("scenario") {
		ip.Scenario, _ = cmd.Flags().GetString("scenario")
	}
	if cmd.Flags().Changed("ranks") {
		ip.Ranks, _ = cmd.Flags().GetInt("ranks")
	}
	if cmd.Flags().Changed("blocks-per-rank") {
		ip.BlocksPerRank, _ = cmd.Flags().GetInt("blocks-per-rank")
	}
	if cmd.Flags().Changed("local-timestepping") {
		ip.LocalTimeStepping, _ = cmd.Flags().GetBool("local-timestepping")
	}
	if cmd.Flags().Changed("bathymetry-file") {
		ip.BathymetryFile, _ = cmd.Flags().GetString("bathymetry-file")
	}
	if cmd.Flags().Changed("displacement-file") {
		ip.DisplacementFile, _ = cmd.Flags().GetString("displacement-file")
	}
	ip.Print()
	return
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Float64P("simulation-duration", "e", 100, "Time in seconds to simulate")
	simulateCmd.Flags().IntP("checkpoint-count", "n", 100, "Number of simulation snapshots to be written")
	simulateCmd.Flags().IntP("resolution-horizontal", "x", 100, "Number of simulation cells in horizontal direction")
	simulateCmd.Flags().IntP("resolution-vertical", "y", 100, "Number of simulated cells in y-direction")
	simulateCmd.Flags().StringP("output-basepath", "o", "swe", "Output base file name")
	simulateCmd.Flags().StringP("bathymetry-file", "b", "", "File containing the bathymetry")
	simulateCmd.Flags().StringP("displacement-file", "d", "", "File containing the displacement")
	simulateCmd.Flags().StringP("input-file", "I", "", "YAML input parameters file, overridden by command line options")
	simulateCmd.Flags().StringP("flux", "f", "hlle", "Riemann solver: one of [hlle, fwave, augrie]")
	simulateCmd.Flags().StringP("scenario", "s", "radialdambreak", "Scenario: one of [radialdambreak, lakeatrest, file]")
	simulateCmd.Flags().IntP("ranks", "p", 1, "Number of simulation ranks (process grid size)")
	simulateCmd.Flags().Int("blocks-per-rank", 1, "Number of vertically stacked blocks per rank")
	simulateCmd.Flags().Bool("local-timestepping", false, "Advance blocks on per-block dyadic timesteps")
	simulateCmd.Flags().Bool("profile", false, "Write a CPU profile of the run")
}
