package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tatianab/library-of-memories/internal/models"
)

var (
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).PaddingRight(1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true).PaddingRight(1)
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F")).PaddingRight(1)
)

// lowMark is the value under which a stat or room is shown as a warning.
const lowMark = 30

func (m model) renderState() string {
	g := m.view.State
	if g == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("DAY %d", g.Day)) + "\n")
	fmt.Fprintf(&b, "Work points: %d / %d\n", g.ActionPoints, g.MaxActionPoints)
	fmt.Fprintf(&b, "Library level: %d\n\n", g.LibraryLevel)

	b.WriteString(statTable(g) + "\n\n")
	b.WriteString(resourceTable(g) + "\n\n")
	b.WriteString(librarianTable(g) + "\n\n")
	b.WriteString(roomTable(g))

	stateWidth := int(float64(m.width) * 0.33)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers(headers...)
}

func statTable(g *models.GameState) string {
	rows := make([][]string, 0, len(models.Stats))
	for _, s := range models.Stats {
		rows = append(rows, []string{s.Label(), strconv.Itoa(g.Stat(s))})
	}
	return newTable("Stat", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && g.Stat(models.Stats[row]) < lowMark {
				return lowStyle
			}
			return cellStyle
		}).
		Render()
}

func resourceTable(g *models.GameState) string {
	rows := make([][]string, 0, len(models.Resources))
	for _, r := range models.Resources {
		rows = append(rows, []string{r.Label(), strconv.Itoa(g.Resources[r])})
	}
	return newTable("Resource", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && g.Resources[models.Resources[row]] < 0 {
				return lowStyle
			}
			return cellStyle
		}).
		Render()
}

func librarianTable(g *models.GameState) string {
	rows := make([][]string, 0, len(g.Librarians))
	for _, l := range g.Librarians {
		rows = append(rows, []string{l.Name, l.Skill, strconv.Itoa(l.Trust)})
	}
	return newTable(fmt.Sprintf("Librarians %d/%d", len(g.Librarians), g.MaxLibrarians), "", "Trust").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func roomTable(g *models.GameState) string {
	var rows [][]string
	var durability []int
	for _, key := range g.FacilityKeys() {
		room := g.RecordRooms[key]
		if !room.Built {
			continue
		}
		rows = append(rows, []string{room.Name, strconv.Itoa(room.Durability)})
		durability = append(durability, room.Durability)
	}
	if len(rows) == 0 {
		return headerStyle.Render("Record rooms") + "\n(none built)"
	}
	return newTable("Record rooms", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && durability[row] < lowMark {
				return lowStyle
			}
			return cellStyle
		}).
		Render()
}
