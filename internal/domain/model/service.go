package model

// ServiceKey identifies one upstream lookup service.
type ServiceKey string

const (
	ServiceSoat     ServiceKey = "soat"
	ServiceItv      ServiceKey = "itv"
	ServiceSunarp   ServiceKey = "sunarp"
	ServiceLicencia ServiceKey = "licencia"
	ServiceDni      ServiceKey = "dni"
	ServiceRedam    ServiceKey = "redam"
)

// FieldKind is the query field a service expects.
type FieldKind string

const (
	FieldPlaca     FieldKind = "placa"
	FieldDocumento FieldKind = "dni"
)

// Minimum accepted query lengths per field kind.
const (
	MinLenPlaca     = 6
	MinLenDocumento = 8
)

// ConsultationType is the coarse history category a service maps onto.
// The mapping is deliberately many-to-one.
type ConsultationType string

const (
	TipoVehicular ConsultationType = "vehicular"
	TipoPersonal  ConsultationType = "personal"
)

// ServiceSpec describes one lookup service.
type ServiceSpec struct {
	Key   ServiceKey
	Campo FieldKind
	Tipo  ConsultationType
}

var serviceCatalog = map[ServiceKey]ServiceSpec{
	ServiceSoat:     {Key: ServiceSoat, Campo: FieldPlaca, Tipo: TipoVehicular},
	ServiceItv:      {Key: ServiceItv, Campo: FieldPlaca, Tipo: TipoVehicular},
	ServiceSunarp:   {Key: ServiceSunarp, Campo: FieldPlaca, Tipo: TipoVehicular},
	ServiceLicencia: {Key: ServiceLicencia, Campo: FieldDocumento, Tipo: TipoPersonal},
	ServiceDni:      {Key: ServiceDni, Campo: FieldDocumento, Tipo: TipoPersonal},
	ServiceRedam:    {Key: ServiceRedam, Campo: FieldDocumento, Tipo: TipoPersonal},
}

// LookupService returns the catalog entry for key.
func LookupService(key ServiceKey) (ServiceSpec, bool) {
	s, ok := serviceCatalog[key]
	return s, ok
}

// VehicleServices lists the plate-keyed services in bulk fan-out order.
func VehicleServices() []ServiceKey {
	return []ServiceKey{ServiceSoat, ServiceItv, ServiceSunarp}
}

// PersonServices lists the document-keyed services in bulk fan-out order.
func PersonServices() []ServiceKey {
	return []ServiceKey{ServiceDni, ServiceLicencia, ServiceRedam}
}

// MinLen returns the minimum query length for the field kind.
func (f FieldKind) MinLen() int {
	if f == FieldPlaca {
		return MinLenPlaca
	}
	return MinLenDocumento
}
