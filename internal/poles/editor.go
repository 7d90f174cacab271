// Package poles holds the pure transformations applied to a session's poles
// and their elements. Every function returns a new snapshot and leaves its
// input untouched; persisting the result is the caller's job.
package poles

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
)

// AddPole appends a new pole with a fresh id and no elements.
func AddPole(s models.Session, req models.AddPoleRequest) (models.Session, models.Pole, error) {
	name := strings.TrimSpace(req.Name)
	class := strings.TrimSpace(req.Class)

	if name == "" {
		return s, models.Pole{}, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if math.IsNaN(req.Height) || math.IsInf(req.Height, 0) || req.Height <= 0 {
		return s, models.Pole{}, &models.ValidationError{Field: "height", Reason: "must be a positive number of meters"}
	}
	if class == "" {
		return s, models.Pole{}, &models.ValidationError{Field: "class", Reason: "must not be empty"}
	}

	pole := models.Pole{
		ID:       uuid.New().String(),
		Name:     name,
		Height:   req.Height,
		Class:    class,
		Value:    0,
		Remarks:  req.Remarks,
		Elements: []models.PoleElement{},
	}

	out := s.Clone()
	out.Poles = append(out.Poles, pole)
	return out, pole, nil
}

// DeletePole removes the pole with the given id. Unknown ids leave the
// session unchanged.
func DeletePole(s models.Session, poleID string) models.Session {
	out := s.Clone()
	if i := out.FindPole(poleID); i >= 0 {
		out.Poles = append(out.Poles[:i], out.Poles[i+1:]...)
	}
	return out
}

// AddElement appends a new element to the pole with the given id.
func AddElement(s models.Session, poleID string, req models.AddElementRequest) (models.Session, models.PoleElement, error) {
	i := s.FindPole(poleID)
	if i < 0 {
		return s, models.PoleElement{}, &models.NotFoundError{Kind: "pole", ID: poleID}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return s, models.PoleElement{}, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if req.Quantity < 1 {
		return s, models.PoleElement{}, &models.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if !req.Status.IsValid() {
		return s, models.PoleElement{}, &models.ValidationError{Field: "status", Reason: "must be one of pose, depose, conserve"}
	}

	el := models.PoleElement{
		ID:       uuid.New().String(),
		Name:     name,
		Quantity: req.Quantity,
		Status:   req.Status,
	}
	if req.IsCustom != nil {
		el.IsCustom = *req.IsCustom
	}

	out := s.Clone()
	out.Poles[i].Elements = append(out.Poles[i].Elements, el)
	return out, el, nil
}

// DeleteElement removes an element from a pole. Unknown pole or element ids
// leave the session unchanged.
func DeleteElement(s models.Session, poleID, elementID string) models.Session {
	out := s.Clone()
	i := out.FindPole(poleID)
	if i < 0 {
		return out
	}
	pole := &out.Poles[i]
	if j := pole.FindElement(elementID); j >= 0 {
		pole.Elements = append(pole.Elements[:j], pole.Elements[j+1:]...)
	}
	return out
}

// ElementsByStatus partitions a pole's elements by status, keeping
// insertion order inside each group. All three statuses are always present.
func ElementsByStatus(p models.Pole) models.ElementGroups {
	groups := make(models.ElementGroups, len(models.Statuses))
	for _, st := range models.Statuses {
		groups[st] = []models.PoleElement{}
	}
	for _, e := range p.Elements {
		groups[e.Status] = append(groups[e.Status], e)
	}
	return groups
}
