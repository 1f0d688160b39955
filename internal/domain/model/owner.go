package model

import (
	"regexp"
	"strings"
)

// OwnerKind classifies a registry owner name.
type OwnerKind string

const (
	OwnerPersona OwnerKind = "persona"
	OwnerEmpresa OwnerKind = "empresa"
)

// OwnerLookupState is the result of an owner-name identity enrichment cycle,
// keyed by the normalized owner name that triggered it.
type OwnerLookupState struct {
	Loading bool
	Tipo    OwnerKind
	Data    map[string]any
	Err     string
	Query   string // normalized name cache key
}

var (
	reParentesis  = regexp.MustCompile(`\([^)]*\)`)
	rePuntos      = regexp.MustCompile(`\.`)
	rePuntuacion  = regexp.MustCompile(`[,;:/'"\-]`)
	reEspacios    = regexp.MustCompile(`\s+`)
	reTokenLegal  *regexp.Regexp
	tokensEmpresa = []string{
		"SAC", "SA", "SAA", "SRL", "SRLTDA", "EIRL", "SCRL", "LTDA",
		"INC", "CORP", "EMPRESA", "COMPANIA", "CORPORACION", "CONSORCIO",
		"ASOCIACION", "COOPERATIVA", "INVERSIONES", "TRANSPORTES",
		"SERVICIOS", "NEGOCIOS", "INDUSTRIAS", "COMERCIAL", "CONSTRUCTORA",
		"IMPORTACIONES", "EXPORTACIONES", "GRUPO", "BANCO", "FUNDACION",
		"INSTITUTO", "MUNICIPALIDAD", "MINISTERIO", "UNIVERSIDAD",
	}
)

func init() {
	reTokenLegal = regexp.MustCompile(`\b(` + strings.Join(tokensEmpresa, "|") + `)\b`)
}

// NormalizeOwnerName prepares a registry owner name for classification and
// cache keying: parenthesized text stripped, abbreviation dots removed so
// "S.A.C." stays one SAC token, remaining punctuation turned into spaces,
// whitespace collapsed, uppercased.
func NormalizeOwnerName(s string) string {
	s = reParentesis.ReplaceAllString(s, " ")
	s = rePuntos.ReplaceAllString(s, "")
	s = rePuntuacion.ReplaceAllString(s, " ")
	s = reEspacios.ReplaceAllString(s, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// ClassifyOwnerName decides persona vs empresa by matching legal-entity
// suffixes and generic organization words on word boundaries.
func ClassifyOwnerName(normalized string) OwnerKind {
	if reTokenLegal.MatchString(normalized) {
		return OwnerEmpresa
	}
	return OwnerPersona
}
