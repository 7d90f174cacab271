package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
)

var (
	colorRed    = lipgloss.Color("#DC2626")
	colorBlue   = lipgloss.Color("#2563EB")
	colorGreen  = lipgloss.Color("#16A34A")
	colorMuted  = lipgloss.Color("#6B7280")
	colorBorder = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	poleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(40)

	poleNameStyle = lipgloss.NewStyle().Bold(true)

	remarksStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	sectionStyles = map[models.Status]lipgloss.Style{
		models.StatusDepose:   lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		models.StatusConserve: lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		models.StatusPose:     lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	}
)

// RenderText lays the document out for a terminal, one bordered card per
// pole.
func RenderText(doc Document) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(doc.Title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Créé le " + doc.CreatedOn))
	b.WriteString("\n")

	for _, card := range doc.Poles {
		var lines []string
		lines = append(lines, poleNameStyle.Render(card.Name)+"  "+card.Spec)
		if card.Remarks != "" {
			lines = append(lines, remarksStyle.Render(card.Remarks))
		}
		for _, sec := range card.Sections {
			lines = append(lines, sectionStyles[sec.Status].Render(sec.Title))
			if sec.Empty() {
				lines = append(lines, "  "+Placeholder)
				continue
			}
			for _, l := range sec.Lines {
				lines = append(lines, "  "+l)
			}
		}
		b.WriteString(poleStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}
