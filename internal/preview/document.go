// Package preview renders the printable summary of a session: for every
// pole, the elements to remove, to keep and to install.
package preview

import (
	"fmt"
	"math"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/poles"
)

// Placeholder is printed in place of an empty section.
const Placeholder = "Aucun élément"

const dateLayout = "02/01/2006"

var sectionTitles = map[models.Status]string{
	models.StatusDepose:   "À déposer",
	models.StatusConserve: "À conserver",
	models.StatusPose:     "À poser",
}

// Document is a read-only snapshot of a session laid out for printing.
type Document struct {
	Title     string
	CreatedOn string
	Poles     []PoleCard
}

// PoleCard is the printed block for one pole.
type PoleCard struct {
	Name string
	// Spec is the truncated height followed by the class, e.g. "9C2".
	Spec     string
	Remarks  string
	Sections []Section
}

// Section lists the elements of one status on a pole card, one
// "<quantity> <type>" line each.
type Section struct {
	Status models.Status
	Title  string
	Lines  []string
}

// Empty reports whether the section prints the placeholder.
func (s Section) Empty() bool { return len(s.Lines) == 0 }

// Build lays out a session. Sections always come in the order removed,
// kept, installed.
func Build(s models.Session) Document {
	doc := Document{
		Title:     s.Name,
		CreatedOn: s.CreatedAt.Local().Format(dateLayout),
		Poles:     make([]PoleCard, 0, len(s.Poles)),
	}

	for _, p := range s.Poles {
		card := PoleCard{
			Name:    p.Name,
			Spec:    fmt.Sprintf("%d%s", int(math.Floor(p.Height)), p.Class),
			Remarks: p.Remarks,
		}
		groups := poles.ElementsByStatus(p)
		for _, st := range models.Statuses {
			sec := Section{Status: st, Title: sectionTitles[st]}
			for _, e := range groups[st] {
				sec.Lines = append(sec.Lines, fmt.Sprintf("%d %s", e.Quantity, e.Name))
			}
			card.Sections = append(card.Sections, sec)
		}
		doc.Poles = append(doc.Poles, card)
	}
	return doc
}
