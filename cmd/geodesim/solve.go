package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSolveCmd() *cobra.Command {
	var (
		first       bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "search the launch grid for a winning shot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("concurrency") {
				sess.cfg.Oracle.Concurrency = concurrency
			}
			o := sess.cfg.NewOracle(sess.logger)
			o.Options = sess.level.Options(o.Options)
			field := sess.fields.Field()
			start, goal := sess.level.Start.Vec(), sess.level.Goal.Vec()

			if first {
				launch, ok, err := o.FirstSolution(cmd.Context(), field, start, goal)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("unsolvable")
					return nil
				}
				fmt.Printf("solution: %s  velocity (%.4f, %.4f)\n", launch, launch.Vel.X, launch.Vel.Y)
				return nil
			}

			report, err := o.Solve(cmd.Context(), field, start, goal)
			if err != nil {
				return err
			}
			sess.logger.Info("level solved",
				zap.Bool("solvable", report.Solvable),
				zap.Int("trials", report.Trials),
				zap.Int("solutions", len(report.Solutions)),
				zap.Duration("elapsed", report.Elapsed),
			)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "solvable\t%t\n", report.Solvable)
			fmt.Fprintf(w, "trials\t%d\n", report.Trials)
			for _, oc := range sim.Outcomes() {
				if n := report.Outcomes[oc]; n > 0 {
					fmt.Fprintf(w, "%s\t%d\n", oc, n)
				}
			}
			if report.Degenerate > 0 {
				fmt.Fprintf(w, "degenerate\t%d\n", report.Degenerate)
			}
			fmt.Fprintf(w, "elapsed\t%v\n", report.Elapsed)
			if len(report.Solutions) > 0 {
				fmt.Fprintln(w, "\nANGLE\tPOWER\tVX\tVY")
				for _, l := range report.Solutions {
					fmt.Fprintf(w, "%.0f\t%.1f\t%.4f\t%.4f\n", l.AngleDeg, l.Power, l.Vel.X, l.Vel.Y)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&first, "first", false, "stop at the first solution in grid order")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel trials (0 = GOMAXPROCS)")
	return cmd
}
