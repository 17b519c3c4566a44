package models

import "strings"

// Status is the normalized validity of a ticket.
type Status string

const (
	StatusValid   Status = "VALID"
	StatusInvalid Status = "INVALID"
	StatusUnknown Status = "UNKNOWN"
)

// Upstream exports spell validity in several ways (English and Portuguese,
// mixed case, with or without accents). Everything not listed here is UNKNOWN.
var statusSpellings = map[string]Status{
	"valid":     StatusValid,
	"validated": StatusValid,
	"valido":    StatusValid,
	"válido":    StatusValid,
	"validado":  StatusValid,
	"ok":        StatusValid,

	"invalid":    StatusInvalid,
	"invalido":   StatusInvalid,
	"inválido":   StatusInvalid,
	"invalidado": StatusInvalid,
	"rejected":   StatusInvalid,
	"rejeitado":  StatusInvalid,
	"cancelled":  StatusInvalid,
	"cancelado":  StatusInvalid,
}

// NormalizeStatus maps a free-text upstream status to a Status value.
func NormalizeStatus(raw string) Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return StatusUnknown
	}
	if s, ok := statusSpellings[key]; ok {
		return s
	}
	return StatusUnknown
}
