package elevutils

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
)

//go:generate sh -c "printf %s $(git rev-parse HEAD) > githash.txt"
//go:embed githash.txt
var gitHash string

func GetGitHash() string {
	return gitHash
}

func ProcessCmdArgs() (string, int, int64) {
	help := flag.Bool("help", false, "Show Help Window")
	version := flag.Bool("version", false, "Show Version")
	configPath := flag.String("config", "", "Path to the YAML config file. Defaults apply when empty")
	elevatorCount := flag.Int("elevators", 3, "Number of elevators to run. Defaults to 3")
	seed := flag.Int64("seed", 0, "Seed for the demand generator. 0 uses the current time")

	flag.Parse()

	if *elevatorCount < 1 {
		fmt.Println("Elevator count must be at least 1")
		os.Exit(1)
	}

	if *version {
		fmt.Println("Version:", GetGitHash())
		os.Exit(0)
	}

	if *help {
		fmt.Println("Usage: ./dispatchd [OPTIONS]")
		fmt.Println("Elevator Dispatch Daemon")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	return *configPath, *elevatorCount, *seed
}
