package parse

import "consulta-vehicular/internal/domain/model"

// Licencia parses a driving-license payload from its nested "data" and
// "resumen" sub-objects. The procedure and bonus sub-lists pass through
// unmodified for display.
func Licencia(raw string, payload map[string]any) *model.LicenciaConducir {
	data := getMap(payload, "data", "datos")
	resumen := getMap(payload, "resumen", "summary")
	if data == nil && resumen == nil {
		return nil
	}

	lic := &model.LicenciaConducir{
		Numero:        getString(data, "numero", "numero_licencia", "licencia"),
		Clase:         getString(data, "clase", "categoria", "clase_categoria"),
		Restricciones: getString(data, "restricciones", "restriccion"),
		Estado:        getString(data, "estado", "estado_licencia"),
		Vencimiento:   getString(data, "fecha_vencimiento", "vigencia_hasta", "fecha_hasta"),
		Titular:       getString(data, "titular", "nombre", "nombre_completo"),
		Puntos:        getString(resumen, "puntos", "saldo_puntos"),
		Infracciones:  getString(resumen, "infracciones", "total_infracciones"),
	}
	if lic.Puntos == "" {
		lic.Puntos = getString(data, "puntos")
	}
	if lic.Infracciones == "" {
		lic.Infracciones = getString(data, "infracciones")
	}
	lic.Tramites = mapSlice(getSlice(payload, "tramites"))
	if lic.Tramites == nil {
		lic.Tramites = mapSlice(getSlice(data, "tramites"))
	}
	lic.Bonificaciones = mapSlice(getSlice(payload, "bonificaciones"))
	if lic.Bonificaciones == nil {
		lic.Bonificaciones = mapSlice(getSlice(data, "bonificaciones"))
	}
	return lic
}
