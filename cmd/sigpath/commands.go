package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sigpath/internal/analysis"
	"github.com/san-kum/sigpath/internal/config"
	"github.com/san-kum/sigpath/internal/export"
	"github.com/san-kum/sigpath/internal/model"
	"github.com/san-kum/sigpath/internal/storage"
	"github.com/san-kum/sigpath/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, cfg, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	net := exp.Network()
	if diags := net.Diagnostics(); len(diags) > 0 {
		fmt.Print(viz.RenderDiagnostics(diags, viz.CurrentTheme))
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("simulating %s (%d species, %d reactions) with %s...\n",
		net.Name(), net.StateDim(), len(net.Reactions()), cfg.Integrator)

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Stats.Elapsed)
	fmt.Printf("samples: %d  steps: %d  rejected: %d  evaluations: %d\n",
		len(result.Times), result.Stats.Steps, result.Stats.Rejected, result.Stats.Evaluations)

	if !noSave {
		st, err := openStorage(cfg.Storage.Driver, cfg.Storage.Dir)
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.Save(exp.Metadata(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Println()
		fmt.Print(viz.RenderDiagnostics(result.Diagnostics, viz.CurrentTheme))
	}

	fmt.Println("\nmetrics:")
	for _, name := range sortedNames(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if showPlot {
		graph, err := viz.PlotTrajectory(result.Species, result.Times, result.States, viz.PlotOptions{})
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}

func inspectModel(cmd *cobra.Command, args []string) error {
	exp, _, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	fmt.Print(viz.RenderNetwork(exp.Network(), viz.CurrentTheme))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSPECIES\tSPAN\tPOINTS\tINTEG\tDIAG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g..%g\t%d\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			len(run.Species),
			run.Start, run.End,
			run.Points,
			run.Integrator,
			len(run.Diagnostics),
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, id string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrajectory(id)
	if err != nil {
		return nil, nil, err
	}
	return meta, tr, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(tr.States))

	graph, err := viz.PlotTrajectory(tr.Species, tr.Times, tr.States, viz.PlotOptions{Species: species})
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(tr.States) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	fmt.Println(viz.RenderSummary(analysis.Summarize(tr.Times, tr.States, tr.Species), viz.CurrentTheme))
	fmt.Println()

	if t, ok := analysis.SteadyStateTime(tr.Times, tr.States, 1e-3, 1e-9); ok {
		fmt.Printf("steady state reached at t = %.4g\n", t)
	} else {
		fmt.Println("steady state not reached")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSPECIES\tPERIOD\tPROMINENCE\tEXTREMA")
	for j, name := range tr.Species {
		col := make([]float64, len(tr.States))
		for i, x := range tr.States {
			col[i] = x[j]
		}
		osc, ok := analysis.DominantPeriod(tr.Times, col, 10)
		if !ok {
			fmt.Fprintf(w, "%s\t-\t-\t%d\n", name, osc.Extrema)
			continue
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.3g\t%d\n", name, osc.Period, osc.Prominence, osc.Extrema)
	}
	return w.Flush()
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return viz.RunReplay(viz.NewReplay(meta.Model+"  "+meta.ID, tr.Species, tr.Times, tr.States))
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	path := meta.ID + ".csv"
	if len(args) > 1 {
		path = args[1]
	}
	if err := storage.ExportCSVFile(path, tr); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(tr.States), path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return storage.ExportJSON(os.Stdout, *meta, tr)
	}
	if err := storage.ExportJSONFile(args[1], *meta, tr); err != nil {
		return err
	}
	fmt.Printf("exported run %s to %s\n", meta.ID, args[1])
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	path := meta.ID + ".svg"
	if len(args) > 1 {
		path = args[1]
	}
	opts := export.SVGOptions{Title: meta.Model, Theme: viz.CurrentTheme}
	if err := export.TrajectorySVGFile(path, tr.Species, tr.Times, tr.States, opts); err != nil {
		return err
	}
	fmt.Printf("rendered %d species to %s\n", len(tr.Species), path)
	return nil
}

func convertModel(cmd *cobra.Command, args []string) error {
	spec, err := model.Load(args[0])
	if err != nil {
		return err
	}
	if err := model.Export(args[1], spec); err != nil {
		return err
	}
	fmt.Printf("converted %s: %d species, %d reactions -> %s\n",
		spec.Name, len(spec.Species), len(spec.Reactions), args[1])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tINTEG\tPOINTS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, p.Integrator, p.Points, p.Description)
	}
	return w.Flush()
}

func sweepConstant(cmd *cobra.Command, args []string) error {
	exp, _, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	targets := species
	if len(targets) == 0 {
		targets = exp.Network().Symbols().IDs()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SPECIES\t%s\tFINAL\tPEAKS\n", strings.ToUpper(sweepConst))
	for _, sp := range targets {
		pts, err := exp.Sweep(ctx, sweepConst, sp, sweepValues)
		if err != nil {
			return err
		}
		for _, p := range pts {
			fmt.Fprintf(w, "%s\t%g\t%.6g\t%d\n", sp, p.Value, p.Final, len(p.Peaks))
		}
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	exp, _, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	n := workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	results, err := exp.Ensemble(ctx, members, spread, seed, n)
	if err != nil {
		return err
	}

	names := exp.Network().Symbols().IDs()
	fmt.Printf("ensemble of %d (spread %.3g, seed %d)\n\n", len(results), spread, seed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tMEAN\tSTD\tMIN\tMAX")
	for j, name := range names {
		mean, std, lo, hi := finalStats(results, j)
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.6g\t%.6g\n", name, mean, std, lo, hi)
	}
	return w.Flush()
}
