package model

import (
	"fmt"
	"strings"
)

// Typed records produced by the response normalizers. Upstream services return
// inconsistent, sometimes free-text payloads; these are the normalized shapes
// the rest of the system works with.

// PolizaSoat is a parsed SOAT insurance policy row.
type PolizaSoat struct {
	Aseguradora        string `json:"aseguradora"`
	Clase              string `json:"clase"`
	Uso                string `json:"uso"`
	Accidentes         string `json:"accidentes"`
	Poliza             string `json:"poliza"`
	Certificado        string `json:"certificado"`
	InicioVigencia     string `json:"inicio_vigencia"`
	FinVigencia        string `json:"fin_vigencia"`
	FechaActualizacion string `json:"fecha_actualizacion,omitempty"`
}

func (p *PolizaSoat) Resumen() string {
	return fmt.Sprintf("SOAT %s vigencia %s - %s", p.Aseguradora, p.InicioVigencia, p.FinVigencia)
}

// RevisionItv is a parsed vehicle inspection (ITV) result.
type RevisionItv struct {
	FechaInicio string `json:"fecha_inicio"`
	FechaFin    string `json:"fecha_fin"`
	Estado      string `json:"estado"`
	Planta      string `json:"planta,omitempty"`
}

func (r *RevisionItv) Resumen() string {
	return fmt.Sprintf("ITV %s vence %s", r.Estado, r.FechaFin)
}

// Propietario is one registered owner of a vehicle.
type Propietario struct {
	Nombre     string `json:"nombre"`
	Documento  string `json:"documento,omitempty"`
	Porcentaje string `json:"porcentaje,omitempty"`
	Condicion  string `json:"condicion,omitempty"`
	// Identidad holds the DNI-lookup enrichment, when one succeeded.
	Identidad map[string]any `json:"identidad,omitempty"`
}

// DocumentoUtilizado references a document previously used in a SUNARP search.
type DocumentoUtilizado struct {
	Titular string `json:"titular,omitempty"`
	Numero  string `json:"numero,omitempty"`
}

// FichaSunarp is a parsed SUNARP vehicle-registry ownership result.
type FichaSunarp struct {
	Placa              string              `json:"placa,omitempty"`
	Serie              string              `json:"serie,omitempty"` // VIN
	Partida            string              `json:"partida,omitempty"`
	Oficina            string              `json:"oficina,omitempty"`
	Propietarios       []Propietario       `json:"propietarios,omitempty"`
	Coincidencias      []Propietario       `json:"coincidencias,omitempty"`
	DocumentoUtilizado *DocumentoUtilizado `json:"documento_utilizado,omitempty"`
	Imagen             string              `json:"imagen,omitempty"`
	CaptchaValido      *bool               `json:"captcha_valido,omitempty"`
}

// PropietarioPrincipal picks the owner name an enrichment cycle starts from:
// the first match if any, else the first owner, else a string synthesized
// from the previously-used document reference.
func (f *FichaSunarp) PropietarioPrincipal() string {
	if len(f.Coincidencias) > 0 {
		return f.Coincidencias[0].Nombre
	}
	if len(f.Propietarios) > 0 {
		return f.Propietarios[0].Nombre
	}
	if d := f.DocumentoUtilizado; d != nil && (d.Titular != "" || d.Numero != "") {
		return strings.TrimSpace(d.Titular + " " + d.Numero)
	}
	return ""
}

func (f *FichaSunarp) Resumen() string {
	n := len(f.Propietarios)
	if n == 0 {
		n = len(f.Coincidencias)
	}
	return fmt.Sprintf("SUNARP %s: %d propietario(s)", f.Placa, n)
}

// LicenciaConducir is a parsed driving-license record.
type LicenciaConducir struct {
	Numero         string           `json:"numero,omitempty"`
	Clase          string           `json:"clase,omitempty"`
	Restricciones  string           `json:"restricciones,omitempty"`
	Estado         string           `json:"estado,omitempty"`
	Vencimiento    string           `json:"vencimiento,omitempty"`
	Titular        string           `json:"titular,omitempty"`
	Puntos         string           `json:"puntos,omitempty"`
	Infracciones   string           `json:"infracciones,omitempty"`
	Tramites       []map[string]any `json:"tramites,omitempty"`
	Bonificaciones []map[string]any `json:"bonificaciones,omitempty"`
}

func (l *LicenciaConducir) Resumen() string {
	return fmt.Sprintf("Licencia %s %s %s", l.Numero, l.Clase, l.Estado)
}

// PersonaDni is a parsed national-ID identity record.
type PersonaDni struct {
	Nombres            string `json:"nombres,omitempty"`
	ApellidoPaterno    string `json:"ap_paterno,omitempty"`
	ApellidoMaterno    string `json:"ap_materno,omitempty"`
	CodigoVerificacion string `json:"codigo_verificacion,omitempty"`
	Direccion          string `json:"direccion,omitempty"`
}

func (p *PersonaDni) NombreCompleto() string {
	return p.Nombres + " " + p.ApellidoPaterno + " " + p.ApellidoMaterno
}

func (p *PersonaDni) Resumen() string {
	return "DNI " + p.NombreCompleto()
}

// RegistroRedam is a parsed debt-registry (REDAM) result: the total count and
// the first entries verbatim.
type RegistroRedam struct {
	Total     int              `json:"total"`
	Registros []map[string]any `json:"registros,omitempty"`
}

func (r *RegistroRedam) Resumen() string {
	return fmt.Sprintf("REDAM: %d registro(s)", r.Total)
}
