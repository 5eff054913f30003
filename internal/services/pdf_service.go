package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/example/zenko/internal/models"
)

// RenderOrderHistoryPDF renders a user's past orders into a PDF document:
// a header with generation timestamp, then per order a line table followed
// by delivery-charge and grand-total rows. A user without orders gets a
// single "No orders found." notice.
func RenderOrderHistoryPDF(user *models.User, orders []models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Order History", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	generated := time.Now().UTC().Format("2006-01-02 15:04 UTC")
	pdf.CellFormat(0, 6, fmt.Sprintf("User: %s   -   Generated: %s", user.Username, generated), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(17, 17, 17)

	if len(orders) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, "No orders found.", "", 1, "L", false, 0, "")
		return output(pdf)
	}

	colWidths := [4]float64{90, 20, 30, 30}

	for _, order := range orders {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Order #%s", shortID(order)), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(243, 244, 246)
		headers := [4]string{"Product", "Qty", "Price", "Total"}
		for i, h := range headers {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(colWidths[i], 7, h, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, item := range order.Items {
			name := item.ProductName
			if name == "" && item.Product != nil {
				name = item.Product.Name
			}
			pdf.CellFormat(colWidths[0], 7, fmt.Sprintf("%s (%s)", name, item.Volume), "1", 0, "L", false, 0, "")
			pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
			pdf.CellFormat(colWidths[2], 7, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(colWidths[3], 7, item.LineTotal().StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}

		pdf.CellFormat(colWidths[0]+colWidths[1], 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, "Delivery:", "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, order.DeliveryCharge.StringFixed(2), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(colWidths[0]+colWidths[1], 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, "Order Total:", "T", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, order.TotalPrice.StringFixed(2), "T", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s", order.Status), "", 1, "L", false, 0, "")
		pdf.Ln(6)
	}

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shortID(order models.Order) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
