// Command plate runs the flow-around-a-plate scenario headlessly and
// prints coarse density/velocity snapshots to stdout. It stands in for
// the GUI shell (provider.cpp/main.cpp's QML image provider) that would
// normally consume a SimRunner's published fields; that shell is out of
// scope here.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	lgca "github.com/lgca-sim/fhp"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario YAML file (defaults to the built-in plate scenario)")
	snapshotEvery := flag.Duration("snapshot-every", 2*time.Second, "how often to print a density/velocity snapshot")
	wave := flag.Int("wave-radius", 0, "if set, run the wave scenario with this obstacle radius instead of plate")
	flag.Parse()

	logger := lgca.NewDefaultLogger("plate", false)

	var scenario *lgca.Scenario
	var err error
	switch {
	case *wave > 0:
		scenario = lgca.WaveScenario(*wave)
	case *scenarioPath != "":
		scenario, err = lgca.LoadScenario(*scenarioPath)
	default:
		scenario = lgca.PlateScenario()
	}
	if err != nil {
		log.Fatalf("plate: loading scenario: %v", err)
	}

	runner := lgca.NewSimRunner(logger)
	if err := runner.Start(scenario); err != nil {
		log.Fatalf("plate: starting run: %v", err)
	}
	defer runner.Close()

	ticker := time.NewTicker(*snapshotEvery)
	defer ticker.Stop()

	enc := json.NewEncoder(os.Stdout)
	for range ticker.C {
		if runner.State() == lgca.StateIdle {
			break
		}
		enc.Encode(map[string]any{
			"run_id":             runner.RunID(),
			"steps":              runner.Steps(),
			"state":              runner.State().String(),
			"density":            runner.Density(),
			"velocity_magnitude": runner.VelocityMagnitude(),
		})
	}
}
