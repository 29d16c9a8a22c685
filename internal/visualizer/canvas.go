package visualizer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewHeight is the fixed height of the drawing area in view units.
const ViewHeight = 200.0

const (
	fillChar  = "█"
	emptyChar = " "
)

// Canvas rasterizes bars onto a grid of terminal cells. Each column spans
// UnitsPerColumn view units and each row spans ViewHeight/Rows units.
type Canvas struct {
	columns        int
	rows           int
	unitsPerColumn float64
	style          lipgloss.Style
}

// NewCanvas creates a canvas with the given number of rows. color is any
// lipgloss color string; an empty color leaves the bars unstyled.
func NewCanvas(rows int, unitsPerColumn float64, color string) *Canvas {
	if rows < 1 {
		rows = 1
	}
	if unitsPerColumn <= 0 {
		unitsPerColumn = 1
	}
	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return &Canvas{
		rows:           rows,
		unitsPerColumn: unitsPerColumn,
		style:          style,
	}
}

// Resize sets the canvas width in terminal columns.
func (c *Canvas) Resize(columns int) {
	if columns < 0 {
		columns = 0
	}
	c.columns = columns
}

// Columns returns the canvas width in terminal columns.
func (c *Canvas) Columns() int { return c.columns }

// Rows returns the canvas height in terminal rows.
func (c *Canvas) Rows() int { return c.rows }

// Width returns the canvas width in view units.
func (c *Canvas) Width() float64 {
	return float64(c.columns) * c.unitsPerColumn
}

// Height returns the canvas height in view units.
func (c *Canvas) Height() float64 { return ViewHeight }

// Grid marks every cell whose center falls inside a bar.
func (c *Canvas) Grid(bars []BarSpec) [][]bool {
	unitsPerRow := ViewHeight / float64(c.rows)
	grid := make([][]bool, c.rows)
	for r := range c.rows {
		grid[r] = make([]bool, c.columns)
		cy := (float64(r) + 0.5) * unitsPerRow
		for _, b := range bars {
			if cy < b.Y || cy >= b.Y+b.Height {
				continue
			}
			for col := range c.columns {
				cx := (float64(col) + 0.5) * c.unitsPerColumn
				if cx >= b.X && cx < b.X+b.Width {
					grid[r][col] = true
				}
			}
		}
	}
	return grid
}

// Paint draws bars as opaque filled blocks. The whole surface is redrawn.
func (c *Canvas) Paint(bars []BarSpec) string {
	grid := c.Grid(bars)
	lines := make([]string, c.rows)
	for r, row := range grid {
		var line strings.Builder
		run := 0
		flush := func() {
			if run > 0 {
				line.WriteString(c.style.Render(strings.Repeat(fillChar, run)))
				run = 0
			}
		}
		for _, filled := range row {
			if filled {
				run++
				continue
			}
			flush()
			line.WriteString(emptyChar)
		}
		flush()
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}
