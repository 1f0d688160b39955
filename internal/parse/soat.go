package parse

import (
	"strings"

	"consulta-vehicular/internal/domain/model"
)

// Soat parses the newline-delimited semi-tabular SOAT text. The data row is
// the first line after the column header with at least 5 tab-delimited
// fields; with no header at all, the first such line anywhere. A record needs
// at least 8 fields.
func Soat(raw string, payload map[string]any) *model.PolizaSoat {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")

	var actualizacion string
	for _, ln := range lines {
		if strings.Contains(strings.ToLower(ln), "actualiza") {
			if i := strings.Index(ln, ":"); i >= 0 {
				actualizacion = strings.TrimSpace(ln[i+1:])
			}
			break
		}
	}

	headerIdx := -1
	for i, ln := range lines {
		if strings.Contains(strings.ToLower(ln), "aseguradora") {
			headerIdx = i
			break
		}
	}

	var row []string
	if headerIdx >= 0 {
		for _, ln := range lines[headerIdx+1:] {
			if f := tabFields(ln); len(f) >= 5 {
				row = f
				break
			}
		}
	} else {
		for _, ln := range lines {
			if f := tabFields(ln); len(f) >= 5 {
				row = f
				break
			}
		}
	}

	if len(row) < 8 {
		return nil
	}
	return &model.PolizaSoat{
		Aseguradora:        row[0],
		Clase:              row[1],
		Uso:                row[2],
		Accidentes:         row[3],
		Poliza:             row[4],
		Certificado:        row[5],
		InicioVigencia:     row[6],
		FinVigencia:        row[7],
		FechaActualizacion: actualizacion,
	}
}
