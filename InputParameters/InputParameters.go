package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParametersSWE struct {
	Title              string  `json:"Title"`
	SimulationDuration float64 `json:"SimulationDuration"`
	CheckpointCount    int     `json:"CheckpointCount"`
	ResolutionX        int     `json:"ResolutionX"`
	ResolutionY        int     `json:"ResolutionY"`
	OutputBasePath     string  `json:"OutputBasePath"`
	FluxType           string  `json:"FluxType"`
	Scenario           string  `json:"Scenario"`
	Ranks              int     `json:"Ranks"`
	BlocksPerRank      int     `json:"BlocksPerRank"`
	LocalTimeStepping  bool    `json:"LocalTimeStep"`
	BathymetryFile     string  `json:"BathymetryFile"`
	DisplacementFile   string  `json:"DisplacementFile"`
}

func NewDefaults() (ip *InputParametersSWE) {
	ip = &InputParametersSWE{
		Title:              "SWE Simulation",
		SimulationDuration: 100,
		CheckpointCount:    100,
		ResolutionX:        100,
		ResolutionY:        100,
		OutputBasePath:     "swe",
		FluxType:           "hlle",
		Scenario:           "radialdambreak",
		Ranks:              1,
		BlocksPerRank:      1,
	}
	return
}

func (ip *InputParametersSWE) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersSWE) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= SimulationDuration\n", ip.SimulationDuration)
	fmt.Printf("[%d]\t\t\t= CheckpointCount\n", ip.CheckpointCount)
	fmt.Printf("[%d x %d]\t\t= Resolution\n", ip.ResolutionX, ip.ResolutionY)
	fmt.Printf("[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Printf("[%s]\t= Scenario\n", ip.Scenario)
	fmt.Printf("[%d]\t\t\t\t= Ranks\n", ip.Ranks)
	fmt.Printf("[%d]\t\t\t\t= Blocks Per Rank\n", ip.BlocksPerRank)
	fmt.Printf("[%v]\t\t\t= Local Timestepping\n", ip.LocalTimeStepping)
}
