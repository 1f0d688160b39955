//go:build !integration

package model_test

import (
	"testing"

	"consulta-vehicular/internal/domain/model"
)

func TestFichaSunarp_PropietarioPrincipal(t *testing.T) {
	t.Run("first match wins over owners", func(t *testing.T) {
		f := &model.FichaSunarp{
			Coincidencias: []model.Propietario{{Nombre: "ACME SAC"}},
			Propietarios:  []model.Propietario{{Nombre: "PEREZ LOPEZ JUAN"}},
		}
		if got := f.PropietarioPrincipal(); got != "ACME SAC" {
			t.Fatalf("expected the first match, got %q", got)
		}
	})

	t.Run("falls back to the first owner", func(t *testing.T) {
		f := &model.FichaSunarp{
			Propietarios: []model.Propietario{
				{Nombre: "PEREZ LOPEZ JUAN"},
				{Nombre: "GARCIA TORRES MARIA"},
			},
		}
		if got := f.PropietarioPrincipal(); got != "PEREZ LOPEZ JUAN" {
			t.Fatalf("expected the first owner, got %q", got)
		}
	})

	t.Run("synthesizes from the used document when no names exist", func(t *testing.T) {
		f := &model.FichaSunarp{
			DocumentoUtilizado: &model.DocumentoUtilizado{Titular: "QUISPE MAMANI PEDRO", Numero: "45678901"},
		}
		if got := f.PropietarioPrincipal(); got != "QUISPE MAMANI PEDRO 45678901" {
			t.Fatalf("unexpected synthesized name: %q", got)
		}
	})

	t.Run("empty ficha yields empty name", func(t *testing.T) {
		if got := (&model.FichaSunarp{}).PropietarioPrincipal(); got != "" {
			t.Fatalf("expected empty, got %q", got)
		}
	})
}
