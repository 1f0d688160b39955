package parse

import "consulta-vehicular/internal/domain/model"

// Redam parses a debt-registry payload: the record count plus the first 3
// entries verbatim.
func Redam(raw string, payload map[string]any) *model.RegistroRedam {
	data := getMap(payload, "data", "datos")
	if data == nil {
		return nil
	}
	regs := mapSlice(getSlice(data, "registros", "records"))
	out := &model.RegistroRedam{Total: len(regs)}
	if len(regs) > 3 {
		regs = regs[:3]
	}
	out.Registros = regs
	return out
}
