package parse

import (
	"strings"

	"consulta-vehicular/internal/domain/model"
)

// plantaKeyword is the fixed substring identifying the inspection facility
// line in the free-text result.
const plantaKeyword = "CITV"

// Itv parses a vehicle-inspection result. It prefers the tabular row holding
// the queried plate, falls back to the first date-bearing row, and as a last
// resort mines the first two dd/mm/yyyy dates anywhere in the text. A
// "vigente" flag on the full payload overrides the row-derived status.
func Itv(raw string, placa string, payload map[string]any) *model.RevisionItv {
	lines := strings.Split(raw, "\n")

	var row []string
	if placa != "" {
		for _, ln := range lines {
			if strings.Contains(ln, placa) {
				row = tabFields(ln)
				break
			}
		}
	}
	if row == nil {
		for _, ln := range lines {
			if reFecha.MatchString(ln) && len(tabFields(ln)) > 1 {
				row = tabFields(ln)
				break
			}
		}
	}

	var inicio, fin, estado string
	if len(row) >= 6 {
		inicio, fin, estado = row[3], row[4], row[5]
	} else if len(row) >= 5 {
		// secondary position fallback for shorter rows
		inicio, fin, estado = row[2], row[3], row[4]
	}

	if inicio == "" && fin == "" {
		// no tabular row: first two dates anywhere become start/end
		if dates := reFecha.FindAllString(raw, 2); len(dates) > 0 {
			inicio = dates[0]
			if len(dates) > 1 {
				fin = dates[1]
			}
		}
	}

	var planta string
	for _, ln := range lines {
		if strings.Contains(strings.ToUpper(ln), plantaKeyword) {
			planta = strings.TrimSpace(ln)
			break
		}
	}

	if vigente, ok := getBool(payload, "vigente"); ok {
		if vigente {
			estado = "VIGENTE"
		} else {
			estado = "VENCIDO"
		}
	}

	if inicio == "" && fin == "" && estado == "" && planta == "" {
		return nil
	}
	return &model.RevisionItv{
		FechaInicio: inicio,
		FechaFin:    fin,
		Estado:      estado,
		Planta:      planta,
	}
}
