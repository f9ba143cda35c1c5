package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/gamelists/internal/models"
)

var _ Painter = (*Palette)(nil)

// newTable builds a bordered table with styled headers.
func (p *Palette) newTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return cell
		})
}

// Games renders summaries as a table, numbering rows by their position in games.
func (p *Palette) Games(games []models.GameSummary) string {
	t := p.newTable("#", "ID", "Title", "Year")
	for i, g := range games {
		t.Row(strconv.Itoa(i), strconv.FormatInt(g.ID, 10), g.Title, strconv.Itoa(g.Year))
	}
	return t.String()
}

// Lists renders lists as a table.
func (p *Palette) Lists(lists []models.GameList) string {
	t := p.newTable("ID", "Name")
	for _, l := range lists {
		t.Row(strconv.FormatInt(l.ID, 10), l.Name)
	}
	return t.String()
}

// Game renders the full detail of a single game.
func (p *Palette) Game(g *models.Game) string {
	var b strings.Builder
	b.WriteString(p.Title(fmt.Sprintf("%s (%d)", g.Title, g.Year)))
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", p.Help(label+":"), value)
	}
	field("ID", strconv.FormatInt(g.ID, 10))
	field("Genre", g.Genre)
	field("Platforms", g.Platforms)
	if g.Score > 0 {
		field("Score", strconv.FormatFloat(g.Score, 'f', 1, 64))
	}
	field("Image", g.ImgURL)
	field("Summary", g.ShortDescription)
	if g.LongDescription != "" {
		b.WriteString("\n")
		b.WriteString(g.LongDescription)
		b.WriteString("\n")
	}
	return b.String()
}

// Status renders a check or cross followed by msg.
func (p *Palette) Status(ok bool, msg string) string {
	if ok {
		return p.OK("✓") + " " + msg
	}
	return p.Err("✗") + " " + msg
}
