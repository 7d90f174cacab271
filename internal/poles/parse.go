package poles

import (
	"math"
	"strconv"
	"strings"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
)

// ParseHeight parses a height typed in a form. A decimal comma is accepted.
func ParseHeight(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, &models.ValidationError{Field: "height", Reason: "not a number"}
	}
	if h <= 0 {
		return 0, &models.ValidationError{Field: "height", Reason: "must be a positive number of meters"}
	}
	return h, nil
}

// ParseQuantity parses an element quantity typed in a form.
func ParseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &models.ValidationError{Field: "quantity", Reason: "not an integer"}
	}
	if q < 1 {
		return 0, &models.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return q, nil
}
