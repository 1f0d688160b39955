//go:build !integration

package model_test

import (
	"testing"

	"consulta-vehicular/internal/domain/model"
)

func TestNormalizeOwnerName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"removes abbreviation dots without splitting", "Transportes Andinos S.A.C.", "TRANSPORTES ANDINOS SAC"},
		{"turns other punctuation into spaces", "PEREZ-LOPEZ, JUAN", "PEREZ LOPEZ JUAN"},
		{"strips parenthesized text", "PEREZ LOPEZ JUAN (TITULAR)", "PEREZ LOPEZ JUAN"},
		{"collapses whitespace", "  GARCIA   TORRES\tMARIA ", "GARCIA TORRES MARIA"},
		{"uppercases", "acme sac", "ACME SAC"},
		{"empty after cleanup", " ( ) .,;", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := model.NormalizeOwnerName(tc.in); got != tc.want {
				t.Fatalf("NormalizeOwnerName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClassifyOwnerName(t *testing.T) {
	cases := []struct {
		in   string
		want model.OwnerKind
	}{
		{"TRANSPORTES ANDINOS SAC", model.OwnerEmpresa},
		{"INVERSIONES DEL SUR EIRL", model.OwnerEmpresa},
		{"GRUPO NORTE", model.OwnerEmpresa},
		{"PEREZ LOPEZ JUAN CARLOS", model.OwnerPersona},
		{"GARCIA TORRES MARIA", model.OwnerPersona},
		// SAC only matches as a whole word
		{"SACRAMENTO QUISPE PEDRO", model.OwnerPersona},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := model.ClassifyOwnerName(tc.in); got != tc.want {
				t.Fatalf("ClassifyOwnerName(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestClassifyOwnerName_DottedSuffix(t *testing.T) {
	// Registry names often spell the suffix with dots; the normalized form
	// must still carry a matchable SAC token.
	got := model.ClassifyOwnerName(model.NormalizeOwnerName("ACME S.A.C."))
	if got != model.OwnerEmpresa {
		t.Fatalf("expected empresa for a dotted legal suffix, got %s", got)
	}
}
