package api

import (
	"encoding/json"
	"strings"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/poles"
)

// Form bodies accept numeric fields either as JSON numbers or as the raw
// text typed by the user ("9,5"), and run them through the poles parsers.

type poleForm struct {
	Name    string          `json:"name"`
	Height  json.RawMessage `json:"height"`
	Class   string          `json:"class"`
	Remarks string          `json:"remarks"`
}

func (f poleForm) request() (models.AddPoleRequest, error) {
	height, err := poles.ParseHeight(formText(f.Height))
	if err != nil {
		return models.AddPoleRequest{}, err
	}
	return models.AddPoleRequest{
		Name:    f.Name,
		Height:  height,
		Class:   f.Class,
		Remarks: f.Remarks,
	}, nil
}

type elementForm struct {
	Name     string          `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
	IsCustom *bool           `json:"isCustom"`
	Status   models.Status   `json:"status"`
}

func (f elementForm) request() (models.AddElementRequest, error) {
	qty, err := poles.ParseQuantity(formText(f.Quantity))
	if err != nil {
		return models.AddElementRequest{}, err
	}
	return models.AddElementRequest{
		Name:     f.Name,
		Quantity: qty,
		IsCustom: f.IsCustom,
		Status:   f.Status,
	}, nil
}

// formText returns a JSON string's contents or a number's literal text.
// Missing and null fields yield "".
func formText(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return text
}
