package parse

import (
	"strings"

	"consulta-vehicular/internal/domain/model"
)

// Sunarp parses a vehicle-registry ownership result. Structured owner arrays
// win; free-text "propietario" lines are only mined when the payload carried
// none. Nil is returned only when neither owners, matches, nor any
// identifying vehicle field were found.
func Sunarp(raw string, payload map[string]any) *model.FichaSunarp {
	ficha := &model.FichaSunarp{
		Placa:   getString(payload, "placa"),
		Serie:   getString(payload, "serie", "vin", "numero_serie"),
		Partida: getString(payload, "partida", "numero_partida"),
		Oficina: getString(payload, "oficina", "oficina_registral"),
		Imagen:  getString(payload, "imagen", "imagen_resultado"),
	}
	if v, ok := getBool(payload, "captcha_valido"); ok {
		ficha.CaptchaValido = &v
	}
	if du := getMap(payload, "documento_utilizado"); du != nil {
		ficha.DocumentoUtilizado = &model.DocumentoUtilizado{
			Titular: getString(du, "titular", "nombre"),
			Numero:  getString(du, "numero", "documento"),
		}
	}

	for _, m := range mapSlice(getSlice(payload, "propietarios")) {
		ficha.Propietarios = append(ficha.Propietarios, ownerFrom(m))
	}
	for _, m := range mapSlice(getSlice(payload, "detalle")) {
		ficha.Propietarios = append(ficha.Propietarios, ownerFrom(m))
	}
	for _, m := range mapSlice(getSlice(payload, "coincidencias")) {
		ficha.Coincidencias = append(ficha.Coincidencias, ownerFrom(m))
	}
	for _, m := range mapSlice(getSlice(payload, "resultados")) {
		ficha.Coincidencias = append(ficha.Coincidencias, ownerFrom(m))
	}

	if len(ficha.Propietarios) == 0 && len(ficha.Coincidencias) == 0 {
		ficha.Propietarios = ownersFromText(raw)
	}

	if len(ficha.Propietarios) == 0 && len(ficha.Coincidencias) == 0 &&
		ficha.Placa == "" && ficha.Serie == "" && ficha.Partida == "" {
		return nil
	}
	return ficha
}

// ownerFrom normalizes one structured owner entry, concatenating name parts
// when only surname/given-name fragments are present.
func ownerFrom(m map[string]any) model.Propietario {
	nombre := getString(m, "nombre", "nombre_completo", "razon_social")
	if nombre == "" {
		parts := []string{
			getString(m, "ap_paterno", "apellido_paterno"),
			getString(m, "ap_materno", "apellido_materno"),
			getString(m, "nombres"),
		}
		var kept []string
		for _, p := range parts {
			if p != "" {
				kept = append(kept, p)
			}
		}
		nombre = strings.Join(kept, " ")
	}
	return model.Propietario{
		Nombre:     nombre,
		Documento:  getString(m, "documento", "dni", "numero_documento"),
		Porcentaje: getString(m, "porcentaje"),
		Condicion:  getString(m, "condicion"),
	}
}

// ownersFromText mines lines mentioning "propietario" (first 3 matches).
func ownersFromText(raw string) []model.Propietario {
	var out []model.Propietario
	for _, ln := range strings.Split(raw, "\n") {
		if !strings.Contains(strings.ToLower(ln), "propietario") {
			continue
		}
		nombre := strings.TrimSpace(ln)
		if i := strings.Index(nombre, ":"); i >= 0 {
			nombre = strings.TrimSpace(nombre[i+1:])
		}
		if nombre == "" {
			continue
		}
		out = append(out, model.Propietario{Nombre: nombre})
		if len(out) == 3 {
			break
		}
	}
	return out
}
