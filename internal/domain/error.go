package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")

	// Consultation errors
	ErrConsultaInvalida    = errors.New("invalid consultation query")
	ErrSinCreditos         = errors.New("no remaining credits")
	ErrServicioDesconocido = errors.New("unknown lookup service")

	// Enrichment errors
	ErrSinCoincidencias = errors.New("no match by name")
)
