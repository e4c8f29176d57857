package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/models"
)

func newMapgenCmd() *cobra.Command {
	var (
		out  string
		show bool
	)
	cmd := &cobra.Command{
		Use:   "mapgen",
		Short: "Generate a map payload file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			g, err := generateMap(cfg.Map, cfg.Simulation.Players)
			if err != nil {
				return err
			}
			if out != "" {
				if err := writeMap(out, g); err != nil {
					return err
				}
				color.New(color.FgGreen).Printf("✓ Wrote %dx%d map to %s\n", g.Width, g.Height, out)
			}
			if show {
				fmt.Println(renderMap(g))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "map.bin", "Output file; empty skips writing")
	cmd.Flags().BoolVar(&show, "show", false, "Print the map")
	return cmd
}

func writeMap(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := g.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

var (
	waterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	forestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
	mineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	rampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	ownerStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("21")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
	}
	frameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// tileGlyph is the character drawn for a tile: structures by initial, land by level
func tileGlyph(t grid.Tile) string {
	switch t.Content {
	case models.Water:
		return waterStyle.Render("~")
	case models.Forest:
		return forestStyle.Render("♣")
	case models.Mine:
		return mineStyle.Render("▲")
	case models.Ramp:
		return rampStyle.Render("/")
	case models.Bridge:
		return waterStyle.Render("=")
	}
	if t.Content.IsStructure() {
		glyph := strings.ToUpper(t.Content.String()[:1])
		if !t.Built() {
			glyph = strings.ToLower(glyph)
		}
		if owner := int(t.OwnerID()); owner >= 0 && owner < len(ownerStyles) {
			return ownerStyles[owner].Render(glyph)
		}
		return glyph
	}
	return fmt.Sprintf("%d", t.Level)
}

// renderMap draws the grid row by row inside a frame
func renderMap(g *grid.Grid) string {
	rows := make([]string, 0, g.Height)
	for y := range g.Height {
		var b strings.Builder
		for x := range g.Width {
			b.WriteString(tileGlyph(g.Get(grid.Pt(x, y))))
		}
		rows = append(rows, b.String())
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
