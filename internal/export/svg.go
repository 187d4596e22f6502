package export

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

var outcomeColors = map[string]string{
	"success":       "#00ff88",
	"out_of_bounds": "#ffaa00",
	"captured":      "#ff4466",
	"exhausted":     "#88aaff",
}

// TrajectoryToSVG draws the scene bounds, wells, goal and path. An empty
// path still renders the level.
func TrajectoryToSVG(scene Scene, width, height int) string {
	w, h := float64(width), float64(height)
	sx := w / (scene.Bounds.MaxX - scene.Bounds.MinX)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString(`<g fill="#3355ff" fill-opacity="0.6">` + "\n")
	for _, m := range scene.Masses {
		cx, cy := scene.Project(m.Pos(), w, h)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, (0.15+0.1*m.Strength)*sx)
	}
	sb.WriteString("</g>\n")

	if scene.Goal != nil {
		cx, cy := scene.Project(*scene.Goal, w, h)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#ffffff" stroke-dasharray="4 3"/>`+"\n",
			cx, cy, scene.GoalRadius*sx)
	}

	if len(scene.Points) > 0 {
		stroke, ok := outcomeColors[scene.Outcome.String()]
		if !ok {
			stroke = "#cccccc"
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
		for i, p := range scene.Points {
			x, y := scene.Project(r2.Vec{X: p.X, Y: p.Y}, w, h)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>` + "\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(w io.Writer, scene Scene, width, height int) error {
	_, err := io.WriteString(w, TrajectoryToSVG(scene, width, height))
	return err
}
