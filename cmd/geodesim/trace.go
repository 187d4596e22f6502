package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/geodesim/internal/export"
	"github.com/san-kum/geodesim/internal/geometry"
	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/metrics"
	"github.com/san-kum/geodesim/internal/oracle"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/storage"
	"github.com/san-kum/geodesim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

type launchFlags struct {
	angle, power float64
	vx, vy       float64
	dt           float64
	steps        int
	integrator   string
}

func (f *launchFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.angle, "angle", 0, "launch angle in degrees")
	cmd.Flags().Float64Var(&f.power, "power", 2, "launch speed")
	cmd.Flags().Float64Var(&f.vx, "vx", 0, "launch velocity x (overrides --angle/--power)")
	cmd.Flags().Float64Var(&f.vy, "vy", 0, "launch velocity y (overrides --angle/--power)")
	cmd.Flags().Float64Var(&f.dt, "dt", 0, "timestep (overrides config)")
	cmd.Flags().IntVar(&f.steps, "steps", 0, "max steps (overrides config)")
	cmd.Flags().StringVar(&f.integrator, "integrator", "", "integrator (overrides config)")
}

func (f *launchFlags) velocity(cmd *cobra.Command) r2.Vec {
	if cmd.Flags().Changed("vx") || cmd.Flags().Changed("vy") {
		return r2.Vec{X: f.vx, Y: f.vy}
	}
	return oracle.NewLaunch(f.angle, f.power).Vel
}

// options merges config defaults, the level and flag overrides.
func (f *launchFlags) options(cmd *cobra.Command) sim.Options {
	if cmd.Flags().Changed("dt") {
		sess.cfg.Simulation.Dt = f.dt
	}
	if cmd.Flags().Changed("steps") {
		sess.cfg.Simulation.MaxSteps = f.steps
	}
	if cmd.Flags().Changed("integrator") {
		sess.cfg.Simulation.Integrator = f.integrator
	}
	return sess.level.Options(sess.cfg.SimOptions())
}

type traced struct {
	opts   sim.Options
	vel    r2.Vec
	result *sim.Result
}

func (f *launchFlags) trace(cmd *cobra.Command) (*traced, error) {
	opts := f.options(cmd)
	if _, err := integrators.ByName(sess.cfg.Simulation.Integrator); err != nil {
		return nil, err
	}
	vel := f.velocity(cmd)
	field := sess.fields.Field()

	s := sim.New(field, sess.cfg.SimulatorOptions(sess.logger)...)
	for _, m := range metrics.Standard(field) {
		s.AddMetric(m)
	}

	start := time.Now()
	result, err := s.Run(cmd.Context(), sess.level.Start.Vec(), vel, opts)
	if err != nil {
		return nil, err
	}
	sess.logger.Info("trajectory computed",
		zap.Stringer("outcome", result.Outcome),
		zap.Int("steps", result.Steps),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &traced{opts: opts, vel: vel, result: result}, nil
}

func newTraceCmd() *cobra.Command {
	var (
		f    launchFlags
		save bool
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "compute one trajectory from the level start",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := f.trace(cmd)
			if err != nil {
				return err
			}
			r := tr.result

			fmt.Printf("outcome: %s\n", r.Outcome)
			fmt.Printf("steps: %d\n", r.Steps)
			fmt.Printf("final: (%.4f, %.4f)\n", r.FinalPos.X, r.FinalPos.Y)
			printMetrics(r.Metrics)

			if profile := viz.HeightProfile(r.Points, 80, 10); profile != "" {
				fmt.Println()
				fmt.Println(profile)
			}

			if !save {
				return nil
			}
			st, err := sess.store()
			if err != nil {
				return err
			}
			meta := storage.NewRunMetadata(sess.fields.Field(),
				storage.Vec{X: sess.level.Start.X, Y: sess.level.Start.Y},
				storage.Vec{X: tr.vel.X, Y: tr.vel.Y},
				tr.opts, sess.cfg.Simulation.Integrator, r)
			id, err := st.Save(meta, r.Points)
			if err != nil {
				return err
			}
			fmt.Printf("\nrun id: %s\n", id)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	return cmd
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func newCompareCmd() *cobra.Command {
	var f launchFlags
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "run the same launch with several integrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = []string{"rk4", "euler"}
			}
			opts := f.options(cmd)
			vel := f.velocity(cmd)
			field := sess.fields.Field()

			fmt.Printf("comparing integrators (dt=%.4f, max_steps=%d)\n\n", opts.Dt, opts.MaxSteps)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tOUTCOME\tSTEPS\tFINAL_X\tFINAL_Y\tTIME_MS")

			for _, name := range names {
				integ, err := integrators.ByName(name)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", name, err)
					continue
				}
				simOpts := append(sess.cfg.SimulatorOptions(sess.logger), sim.WithIntegrator(integ))

				start := time.Now()
				r, err := sim.ComputeTrajectoryContext(cmd.Context(), field, sess.level.Start.Vec(), vel, opts, simOpts...)
				elapsed := time.Since(start)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", name, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%.6f\t%.6f\t%.2f\n",
					name, r.Outcome, r.Steps, r.FinalPos.X, r.FinalPos.Y,
					float64(elapsed.Microseconds())/1000)
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var f launchFlags
	cmd := &cobra.Command{
		Use:   "preview [run_id]",
		Short: "replay a trajectory in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				scene export.Scene
				title string
			)
			if len(args) == 1 {
				meta, points, err := loadRun(args[0])
				if err != nil {
					return err
				}
				scene = export.SceneFromRun(meta, points)
				title = "run " + meta.ID[:8]
			} else {
				tr, err := f.trace(cmd)
				if err != nil {
					return err
				}
				scene = export.NewScene(sess.fields.Field(), tr.result, tr.opts)
				title = fmt.Sprintf("launch (%.2f, %.2f)", tr.vel.X, tr.vel.Y)
			}

			_, err := tea.NewProgram(viz.NewReplay(scene, title), tea.WithAltScreen()).Run()
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe x y",
		Short: "print the surface geometry at a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var x, y float64
			if _, err := fmt.Sscan(args[0], &x); err != nil {
				return fmt.Errorf("invalid x %q: %w", args[0], err)
			}
			if _, err := fmt.Sscan(args[1], &y); err != nil {
				return fmt.Errorf("invalid y %q: %w", args[1], err)
			}

			engine := geometry.NewEngine(sess.fields.Field(), geometry.WithEpsilons(sess.cfg.Geometry))
			s, err := engine.Probe(x, y)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "point\t(%g, %g)\n", s.X, s.Y)
			fmt.Fprintf(w, "height\t%.6f\n", s.Height)
			fmt.Fprintf(w, "gradient\t(%.6f, %.6f)\n", s.DzDx, s.DzDy)
			fmt.Fprintf(w, "metric\t[%.6f %.6f; %.6f %.6f]\n", s.Metric.G11, s.Metric.G12, s.Metric.G21, s.Metric.G22)
			fmt.Fprintf(w, "curvature\t%.6f\n", s.Curvature)
			if err != nil {
				w.Flush()
				return err
			}
			fmt.Fprintf(w, "inverse\t[%.6f %.6f; %.6f %.6f]\n", s.Inverse.G11, s.Inverse.G12, s.Inverse.G21, s.Inverse.G22)
			c := s.Christoffel
			fmt.Fprintf(w, "Γ¹\t11=%.6f 12=%.6f 22=%.6f\n", c.G111, c.G112, c.G122)
			fmt.Fprintf(w, "Γ²\t11=%.6f 12=%.6f 22=%.6f\n", c.G211, c.G212, c.G222)
			return w.Flush()
		},
	}
}
