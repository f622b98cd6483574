package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/player"
	"github.com/Mefin-SR/FlowtrixGame/session"
	"github.com/Mefin-SR/FlowtrixGame/status"
)

// result is the outcome of one headless run
type result struct {
	Seed     string
	Ticks    uint64
	Seconds  float64
	Distance float64
	Score    int
	Segment  int
	Phase    string
	Ceiling  int
	Over     bool
	Cause    string
	Status   status.Snapshot
}

// simulate runs one autopilot session until it ends or seconds of game time pass
func simulate(cfg *config.Config, seconds, dt float64, logger *log.Logger) (result, error) {
	cfg.Session.Autopilot = true
	reg := status.NewRegistry()
	sess, err := session.New(cfg, reg, logger)
	if err != nil {
		return result{}, err
	}

	elapsed := 0.0
	for elapsed < seconds {
		sess.Step(dt, player.IntentNone)
		elapsed += dt
		if over, _ := sess.Over(); over {
			break
		}
	}

	snap := sess.Snapshot()
	return result{
		Seed:     cfg.Session.Seed,
		Ticks:    snap.Tick,
		Seconds:  elapsed,
		Distance: snap.Distance,
		Score:    snap.Score,
		Segment:  snap.SegmentIndex,
		Phase:    snap.Phase,
		Ceiling:  snap.Ceiling,
		Over:     snap.Over,
		Cause:    snap.Cause,
		Status:   reg.Snapshot(),
	}, nil
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	seed := flag.String("seed", "", "first run seed (defaults to the config seed)")
	runs := flag.Int("runs", 1, "number of runs; run i uses seed-i")
	seconds := flag.Float64("seconds", 120, "game seconds per run")
	dt := flag.Float64("dt", 1.0/60, "tick length in seconds")
	metrics := flag.Bool("metrics", false, "print every metric of each run")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "sandbox: ", log.Lmicroseconds)
	}

	base, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "track-sandbox: %v\n", err)
		os.Exit(1)
	}
	if *seed != "" {
		base.Session.Seed = *seed
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tTIME\tDISTANCE\tSCORE\tSEGMENT\tPHASE\tCEILING\tRESULT")
	results := make([]result, 0, *runs)
	start := time.Now()
	for i := 0; i < *runs; i++ {
		cfg := *base
		if *runs > 1 {
			cfg.Session.Seed = fmt.Sprintf("%s-%d", base.Session.Seed, i)
		}
		res, err := simulate(&cfg, *seconds, *dt, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "track-sandbox: %v\n", err)
			os.Exit(1)
		}
		results = append(results, res)

		outcome := "survived"
		if res.Over {
			outcome = res.Cause
		}
		fmt.Fprintf(w, "%s\t%d\t%.1fs\t%.1f\t%d\t%d\t%s\t%d\t%s\n",
			res.Seed, res.Ticks, res.Seconds, res.Distance, res.Score, res.Segment, res.Phase, res.Ceiling, outcome)
	}
	w.Flush()
	fmt.Printf("\n%d run(s) in %v\n", len(results), time.Since(start).Round(time.Millisecond))

	if *metrics {
		for _, res := range results {
			fmt.Printf("\n[%s]\n", res.Seed)
			printMetrics(os.Stdout, res.Status)
		}
	}
}

// printMetrics writes every metric as name = value, sorted by name
func printMetrics(out io.Writer, snap status.Snapshot) {
	lines := make([]string, 0, len(snap.Ints)+len(snap.Floats)+len(snap.Bools)+len(snap.Strings))
	for k, v := range snap.Ints {
		lines = append(lines, fmt.Sprintf("%s = %d", k, v))
	}
	for k, v := range snap.Floats {
		lines = append(lines, fmt.Sprintf("%s = %.3f", k, v))
	}
	for k, v := range snap.Bools {
		lines = append(lines, fmt.Sprintf("%s = %v", k, v))
	}
	for k, v := range snap.Strings {
		lines = append(lines, fmt.Sprintf("%s = %q", k, v))
	}
	sort.Strings(lines)
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}
