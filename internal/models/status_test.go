package models

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw    string
		expect Status
	}{
		// valid spellings
		{"valid", StatusValid},
		{"VALID", StatusValid},
		{"Validated", StatusValid},
		{"valido", StatusValid},
		{"Válido", StatusValid},
		{"VALIDADO", StatusValid},
		{"ok", StatusValid},
		{"  ok  ", StatusValid},

		// invalid spellings
		{"invalid", StatusInvalid},
		{"INVALID", StatusInvalid},
		{"invalido", StatusInvalid},
		{"Inválido", StatusInvalid},
		{"invalidado", StatusInvalid},
		{"rejected", StatusInvalid},
		{"Rejeitado", StatusInvalid},
		{"cancelled", StatusInvalid},
		{"CANCELADO", StatusInvalid},

		// everything else
		{"", StatusUnknown},
		{"pending", StatusUnknown},
		{"aguardando", StatusUnknown},
		{"validish", StatusUnknown},
	}

	for _, tc := range tests {
		if got := NormalizeStatus(tc.raw); got != tc.expect {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", tc.raw, got, tc.expect)
		}
	}
}
