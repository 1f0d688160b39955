// Package export renders consultation history as downloadable spreadsheets.
package export

import (
	"fmt"
	"io"

	"consulta-vehicular/internal/domain/model"

	"github.com/xuri/excelize/v2"
)

var historialHeaders = []string{
	"Fecha", "Tipo", "Placa", "Documento", "Resumen", "Resultado", "Duración (ms)",
}

// HistorialXLSX writes the user's consultation rows as an xlsx workbook.
func HistorialXLSX(w io.Writer, records []*model.ConsultationRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Historial"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range historialHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, rec := range records {
		resultado := "OK"
		if !rec.Success {
			resultado = "ERROR"
		}
		values := []any{
			rec.CreatedAt.Format("02/01/2006 15:04"),
			string(rec.Tipo),
			rec.Placa,
			rec.Dni,
			rec.Resumen,
			resultado,
			rec.DurationMs,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
