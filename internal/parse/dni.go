package parse

import "consulta-vehicular/internal/domain/model"

// Dni parses a national-ID identity payload from its nested "data" object.
func Dni(raw string, payload map[string]any) *model.PersonaDni {
	data := getMap(payload, "data", "datos")
	if data == nil {
		return nil
	}
	p := &model.PersonaDni{
		Nombres:            getString(data, "nombres"),
		ApellidoPaterno:    getString(data, "ap_paterno", "apellido_paterno"),
		ApellidoMaterno:    getString(data, "ap_materno", "apellido_materno"),
		CodigoVerificacion: getString(data, "codigo_verificacion", "digito_verificacion"),
		Direccion:          getString(data, "direccion", "domicilio"),
	}
	if p.Nombres == "" && p.ApellidoPaterno == "" && p.ApellidoMaterno == "" {
		return nil
	}
	return p
}
