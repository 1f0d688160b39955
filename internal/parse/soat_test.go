//go:build !integration

package parse_test

import (
	"testing"

	"consulta-vehicular/internal/parse"
)

func TestSoat(t *testing.T) {
	t.Run("should map an 8-field row under the header in order", func(t *testing.T) {
		raw := "Consulta SOAT\n" +
			"Última actualización: 12/05/2024 10:30\n" +
			"Aseguradora\tClase\tUso\tAccidentes\tPóliza\tCertificado\tInicio\tFin\n" +
			"MAPFRE\tAUTOMOVIL\tPARTICULAR\t0\tP-123456\tC-998877\t01/01/2024\t31/12/2024\n"

		got := parse.Soat(raw, nil)

		if got == nil {
			t.Fatal("expected a record, got nil")
		}
		want := []string{"MAPFRE", "AUTOMOVIL", "PARTICULAR", "0", "P-123456", "C-998877", "01/01/2024", "31/12/2024"}
		fields := []string{got.Aseguradora, got.Clase, got.Uso, got.Accidentes, got.Poliza, got.Certificado, got.InicioVigencia, got.FinVigencia}
		for i := range want {
			if fields[i] != want[i] {
				t.Errorf("field %d: got %q, want %q", i, fields[i], want[i])
			}
		}
		if got.FechaActualizacion != "12/05/2024 10:30" {
			t.Errorf("actualizacion: got %q", got.FechaActualizacion)
		}
	})

	t.Run("should fall back to the first wide row when there is no header", func(t *testing.T) {
		raw := "texto libre\nRIMAC\tMOTO\tPARTICULAR\t1\tP-1\tC-1\t02/02/2024\t01/02/2025\n"

		got := parse.Soat(raw, nil)

		if got == nil {
			t.Fatal("expected a record, got nil")
		}
		if got.Aseguradora != "RIMAC" || got.FinVigencia != "01/02/2025" {
			t.Errorf("unexpected record: %+v", got)
		}
	})

	t.Run("should collapse tab runs and drop empty tokens", func(t *testing.T) {
		raw := "Aseguradora\nPACIFICO\t\t\tAUTOMOVIL\tPARTICULAR\t0\tP-9\t\tC-9\t03/03/2024\t02/03/2025\n"

		got := parse.Soat(raw, nil)

		if got == nil {
			t.Fatal("expected a record, got nil")
		}
		if got.Clase != "AUTOMOVIL" || got.Certificado != "C-9" {
			t.Errorf("tab-run split broken: %+v", got)
		}
	})

	t.Run("should return nil for rows with fewer than 8 fields", func(t *testing.T) {
		raw := "Aseguradora\nMAPFRE\tAUTO\tPART\t0\tP-1\tC-1\t01/01/2024\n"

		if got := parse.Soat(raw, nil); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("should return nil for empty input", func(t *testing.T) {
		if got := parse.Soat("   \n", nil); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}
