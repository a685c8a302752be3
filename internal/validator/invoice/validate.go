// Package invoice validates candidate records recovered from model replies
// against the invoice schema. Rules are evaluated exhaustively: every
// violation is collected before failing, so a caller sees all problems at
// once rather than the first one found.
package invoice

import (
	"fmt"

	"invexa/internal/domain"
)

// Validate checks a candidate record against the invoice schema. It returns
// the typed invoice and a nil violation list on success, or a nil invoice and
// the ordered list of violations otherwise. Values are passed through
// untouched — no coercion or rounding. The embedded total is deliberately not
// reconciled against the sum of item subtotals.
func Validate(candidate map[string]interface{}) (*domain.Invoice, []string) {
	var violations []string

	invoiceNumber, ok := stringField(candidate, "invoiceNumber")
	if !ok {
		violations = append(violations, fieldViolation(candidate, "invoiceNumber", "string"))
	}

	vendor, ok := stringField(candidate, "vendor")
	if !ok {
		violations = append(violations, fieldViolation(candidate, "vendor", "string"))
	}

	// Format coercion to an actual date value is a persistence concern;
	// presence is all the schema demands here.
	date, ok := stringField(candidate, "date")
	if !ok {
		violations = append(violations, fieldViolation(candidate, "date", "string"))
	}

	total, totalViolation := numberField(candidate, "total")
	if totalViolation != "" {
		violations = append(violations, totalViolation)
	}

	items, itemViolations := validateItems(candidate)
	violations = append(violations, itemViolations...)

	if len(violations) > 0 {
		return nil, violations
	}

	return &domain.Invoice{
		InvoiceNumber: invoiceNumber,
		Vendor:        vendor,
		Date:          date,
		Total:         total,
		Items:         items,
	}, nil
}

func validateItems(candidate map[string]interface{}) ([]domain.InvoiceItem, []string) {
	raw, present := candidate["items"]
	if !present || raw == nil {
		return nil, []string{"missing items"}
	}

	seq, ok := raw.([]interface{})
	if !ok {
		return nil, []string{"invalid items (should be array)"}
	}
	if len(seq) == 0 {
		return nil, []string{"items array is empty"}
	}

	var violations []string
	items := make([]domain.InvoiceItem, 0, len(seq))
	for i, entry := range seq {
		pos := i + 1

		obj, ok := entry.(map[string]interface{})
		if !ok {
			violations = append(violations, fmt.Sprintf("item %d: invalid entry (should be object)", pos))
			continue
		}

		name, ok := stringField(obj, "name")
		if !ok {
			violations = append(violations, fmt.Sprintf("item %d: %s", pos, fieldViolation(obj, "name", "string")))
		}

		quantity, qtyViolation := numberField(obj, "quantity")
		if qtyViolation != "" {
			violations = append(violations, fmt.Sprintf("item %d: %s", pos, qtyViolation))
		}

		price, priceViolation := numberField(obj, "price")
		if priceViolation != "" {
			violations = append(violations, fmt.Sprintf("item %d: %s", pos, priceViolation))
		}

		items = append(items, domain.InvoiceItem{
			Position: pos,
			Name:     name,
			Quantity: quantity,
			Price:    price,
		})
	}

	return items, violations
}

// stringField returns the value under key when it is a non-empty string.
func stringField(m map[string]interface{}, key string) (string, bool) {
	v, present := m[key]
	if !present || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// numberField returns the value under key when it is a non-negative number,
// or a violation message otherwise.
func numberField(m map[string]interface{}, key string) (float64, string) {
	v, present := m[key]
	if !present || v == nil {
		return 0, fmt.Sprintf("missing %s", key)
	}

	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	default:
		return 0, fmt.Sprintf("invalid %s (should be number)", key)
	}

	if n < 0 {
		return 0, fmt.Sprintf("%s cannot be negative", key)
	}
	return n, ""
}

// fieldViolation distinguishes a missing field from a present-but-wrong-type
// one in the violation message.
func fieldViolation(m map[string]interface{}, key, wantType string) string {
	v, present := m[key]
	if !present || v == nil {
		return fmt.Sprintf("missing %s", key)
	}
	if s, ok := v.(string); ok && s == "" {
		return fmt.Sprintf("missing %s", key)
	}
	return fmt.Sprintf("invalid %s (should be %s)", key, wantType)
}
