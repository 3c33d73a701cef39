package dashboard

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"

	"carrito/utils"
)

// GetReport renders the current dashboard snapshot as a downloadable PDF.
func (s *Service) GetReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := s.Load(ctx, tiendaID)
	if err != nil {
		log.Println("dashboard report error:", err)
		http.Error(w, "Could not build report", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Informe de carritos recuperados")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Generado: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Ingresos recuperados: EUR %.2f", snap.Stats.RecoveredValue))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Carritos salvados: %d", snap.Stats.RecoveredCarts))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total carritos gestionados: %d", snap.Stats.TotalManaged))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 8, "Estado", "1", 0, "", false, 0, "")
	pdf.CellFormat(60, 8, "Cliente", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Valor", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Fecha", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, c := range snap.Recientes {
		estado := "Pendiente"
		if c.Recuperado {
			estado = "Recuperado"
		}
		fecha := ""
		if !c.Timestamp.IsZero() {
			fecha = c.Timestamp.Format("2006-01-02")
		}
		pdf.CellFormat(30, 7, estado, "1", 0, "", false, 0, "")
		pdf.CellFormat(60, 7, c.Cliente, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", c.Valor()), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, fecha, "1", 1, "", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="informe-carritos.pdf"`)
	if err := pdf.Output(w); err != nil {
		log.Println("dashboard report output error:", err)
	}
}
