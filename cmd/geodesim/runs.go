package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/san-kum/geodesim/internal/config"
	"github.com/san-kum/geodesim/internal/export"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/storage"
	"github.com/san-kum/geodesim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

func loadRun(id string) (*storage.RunMetadata, []sim.Point, error) {
	st, err := sess.store()
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	points, err := st.LoadPoints(id)
	if err != nil {
		return nil, nil, err
	}
	return meta, points, nil
}

// output opens path for writing, or stdout for "" and "-".
func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := sess.store()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tOUTCOME\tSTEPS\tSTART\tVELOCITY\tINTEG")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t(%.2f, %.2f)\t(%.2f, %.2f)\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Outcome,
					run.Steps,
					run.Start.X, run.Start.Y,
					run.Velocity.X, run.Velocity.Y,
					run.Integrator,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the height profile of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, points, err := loadRun(args[0])
			if err != nil {
				return err
			}
			profile := viz.HeightProfile(points, 80, 10)
			if profile == "" {
				return fmt.Errorf("run %s has too few points to plot", meta.ID)
			}
			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("outcome: %s\n", meta.Outcome)
			fmt.Printf("samples: %d\n\n", len(points))
			fmt.Println(profile)
			return nil
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run points to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, points, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return export.WriteCSV(os.Stdout, points)
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and points to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, points, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return export.WriteJSON(os.Stdout, meta, points)
		},
	}
}

func newSVGCmd() *cobra.Command {
	var (
		out           string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, points, err := loadRun(args[0])
			if err != nil {
				return err
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			if err := export.WriteSVG(w, export.SceneFromRun(meta, points), width, height); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 800, "image height")
	return cmd
}

func newPNGCmd() *cobra.Command {
	var (
		out  string
		size float64
	)
	cmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "render a saved run as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, points, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = meta.ID + ".png"
			}
			side := vg.Length(size) * vg.Inch
			if err := export.SavePNG(export.SceneFromRun(meta, points), out, side, side); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <run_id>.png)")
	cmd.Flags().Float64Var(&size, "size", 6, "image side in inches")
	return cmd
}

func newLevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "inspect or write level files",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the active level as JSON",
			RunE: func(cmd *cobra.Command, args []string) error {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(sess.level)
			},
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the active level to a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.SaveLevel(args[0], sess.level); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
