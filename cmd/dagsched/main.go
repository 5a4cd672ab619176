package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"dagsched/aco"
	"dagsched/ga"
	"dagsched/graph"
	"dagsched/schedule"
	"dagsched/stats"

	"github.com/google/uuid"
	"github.com/ledgerwatch/log/v3"
	"github.com/ttacon/chalk"
)

func main() {
	var (
		dagFile     = flag.String("dag", "", "path to the DAG description file")
		solver      = flag.String("solver", "peft", "peft | heft | aco | ga | island")
		seed        = flag.Int64("seed", 42, "RNG seed")
		generations = flag.Int("generations", 200, "generations for aco/ga/island")
		outDir      = flag.String("out", "", "directory for convergence CSVs (empty disables)")
		verbose     = flag.Bool("v", false, "per-generation logging")
	)
	flag.Parse()

	lvl := log.LvlInfo
	if *verbose {
		lvl = log.LvlDebug
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))

	if *dagFile == "" {
		fmt.Fprintln(os.Stderr, "usage: dagsched -dag <file> [-solver peft|heft|aco|ga|island]")
		os.Exit(2)
	}

	d, err := graph.Load(*dagFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, chalk.Red.Color(err.Error()))
		os.Exit(1)
	}

	var (
		result *schedule.Schedule
		series []float64
	)
	switch *solver {
	case "peft":
		result = schedule.NewPEFT(d)
	case "heft":
		result = schedule.NewHEFT(d)
	case "aco":
		cfg := aco.DefaultConfig()
		cfg.Seed = *seed
		cfg.Generations = *generations
		result, series, err = aco.New(d, cfg).Run()
		if err != nil {
			fmt.Fprintln(os.Stderr, chalk.Red.Color(err.Error()))
			os.Exit(1)
		}
	case "ga":
		cfg := ga.DefaultConfig()
		cfg.Seed = *seed
		cfg.Generations = *generations
		result, series = ga.New(d, cfg).Run()
	case "island":
		cfg := ga.DefaultIslandConfig()
		cfg.Seed = *seed
		cfg.TotalGenerations = *generations
		result = ga.NewIslandModel(d, cfg).Run()
	default:
		fmt.Fprintf(os.Stderr, "unknown solver %q\n", *solver)
		os.Exit(2)
	}

	baseline := schedule.NewPEFT(d)
	fmt.Printf("%s %s\n", chalk.Cyan.Color("workload:"), d)
	fmt.Printf("%s %.2f (PEFT baseline %.2f)\n",
		chalk.Green.Color("makespan:"), result.Makespan, baseline.Makespan)
	fmt.Printf("%s %v\n", chalk.Cyan.Color("assignment:"), result.Assignment)

	if *outDir != "" && len(series) > 0 {
		name := fmt.Sprintf("%s_%s.csv", *solver, uuid.NewString())
		path := filepath.Join(*outDir, name)
		if err := stats.WriteConvergenceCSV(path, series); err != nil {
			fmt.Fprintln(os.Stderr, chalk.Red.Color(err.Error()))
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", chalk.Cyan.Color("convergence:"), path)
	}
}
