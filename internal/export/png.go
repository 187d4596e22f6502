package export

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ScenePlot builds a gonum plot of the scene, fixed to the level bounds.
func ScenePlot(scene Scene) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "trajectory: " + scene.Outcome.String()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	if len(scene.Masses) > 0 {
		wells := make(plotter.XYs, len(scene.Masses))
		for i, m := range scene.Masses {
			wells[i] = plotter.XY{X: m.X, Y: m.Y}
		}
		sc, err := plotter.NewScatter(wells)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 50, G: 80, B: 255, A: 200}
		sc.GlyphStyle.Radius = vg.Points(5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("wells", sc)
	}

	if scene.Goal != nil {
		sc, err := plotter.NewScatter(plotter.XYs{{X: scene.Goal.X, Y: scene.Goal.Y}})
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 20, G: 160, B: 60, A: 255}
		sc.GlyphStyle.Radius = vg.Points(6)
		sc.GlyphStyle.Shape = draw.RingGlyph{}
		p.Add(sc)
		p.Legend.Add("goal", sc)
	}

	if len(scene.Points) >= 2 {
		path := make(plotter.XYs, len(scene.Points))
		for i, pt := range scene.Points {
			path[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(path)
		if err != nil {
			return nil, err
		}
		line.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	p.X.Min, p.X.Max = scene.Bounds.MinX, scene.Bounds.MaxX
	p.Y.Min, p.Y.Max = scene.Bounds.MinY, scene.Bounds.MaxY
	return p, nil
}

// SavePNG renders the scene to path. The format follows the extension,
// so .svg and .pdf work too.
func SavePNG(scene Scene, path string, width, height vg.Length) error {
	p, err := ScenePlot(scene)
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}
