// Command camkernel-bench loads a chain from a YAML fixture and runs
// the chain offset pipeline once, printing timing, warnings and
// per-method gap-fill counts. It exists for manual profiling and
// smoke-testing the pipeline outside of a host CAD application; it is
// glue around the core, not part of it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-cam/camkernel/camlog"
	"github.com/go-cam/camkernel/config"
	"github.com/go-cam/camkernel/kernel"
	"github.com/go-cam/camkernel/persist"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "camkernel-bench:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("camkernel-bench", flag.ContinueOnError)
	fixture := fs.String("fixture", "", "path to a YAML Drawing fixture (required)")
	chainIdx := fs.Int("chain", 0, "index of the chain within the fixture's Drawing.Chains to offset")
	distance := fs.Float64("distance", 1.0, "offset distance")
	paramsPath := fs.String("params", "", "optional YAML file of config.ChainOffsetParams overrides")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fixture == "" {
		fs.Usage()
		return fmt.Errorf("-fixture is required")
	}
	if *verbose {
		camlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	params := config.DefaultChainOffsetParams()
	if *paramsPath != "" {
		f, err := os.Open(*paramsPath)
		if err != nil {
			return fmt.Errorf("open params: %w", err)
		}
		defer f.Close()
		params, err = config.LoadParamsYAML(f)
		if err != nil {
			return fmt.Errorf("load params: %w", err)
		}
	}

	data, err := os.ReadFile(*fixture)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	drawing, err := persist.UnmarshalDrawingYAML(data)
	if err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}
	if *chainIdx < 0 || *chainIdx >= len(drawing.Chains) {
		return fmt.Errorf("chain index %d out of range (fixture has %d chains)", *chainIdx, len(drawing.Chains))
	}
	chain := drawing.Chains[*chainIdx]

	result := kernel.ChainOffset(chain, *distance, params.ToKernel())

	fmt.Printf("success=%v chains=%d elapsed=%s\n", result.Success, len(result.Chains), timeFmt(result.Metrics.TotalNanos))
	fmt.Printf("per-shape offset time=%s  intersection calls=%d\n",
		timeFmt(result.Metrics.PerShapeOffsetNanos), result.Metrics.IntersectionCalls)
	for _, method := range result.Metrics.OrderedGapFillMethods() {
		fmt.Printf("gap fills[%s]=%d\n", method, result.Metrics.GapFillsByMethod[method])
	}
	for _, w := range result.Warnings {
		fmt.Println("warning:", w)
	}
	for _, e := range result.Errors {
		fmt.Println("error:", e)
	}
	for i, oc := range result.Chains {
		fmt.Printf("chain[%d] id=%s side=%s shapes=%d closed=%v continuous=%v confidence=%.3f\n",
			i, oc.ID, oc.Side, len(oc.Shapes), oc.Closed, oc.Continuous, oc.Confidence)
	}
	return nil
}

func timeFmt(nanos int64) string {
	return fmt.Sprintf("%.3fms", float64(nanos)/1e6)
}
