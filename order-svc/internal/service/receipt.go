package service

import (
	"bytes"
	"fmt"
	"strings"

	"smartmenu/order-svc/internal/domain"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// PDFReceiptRenderer prints an order as a single page tax receipt.
type PDFReceiptRenderer struct{}

func (PDFReceiptRenderer) Render(order *domain.Order, rest *domain.Restaurant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Receipt "+order.ID, true)
	pdf.AddPage()

	title := "Receipt"
	if rest.GSTRegistered {
		title = "Tax Invoice"
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, tr(rest.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if rest.Address != "" {
		pdf.CellFormat(0, 5, tr(rest.Address), "", 1, "C", false, 0, "")
	}
	if rest.GSTRegistered && rest.GSTNumber != "" {
		pdf.CellFormat(0, 5, "GST No. "+rest.GSTNumber, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Order: "+order.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+order.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Service: "+strings.ReplaceAll(string(order.ServiceType), "_", " "), "", 1, "L", false, 0, "")
	if order.ServiceType == domain.ServiceDineIn && order.Customer.TableNo != "" {
		pdf.CellFormat(0, 5, "Table: "+tr(order.Customer.TableNo), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(15, 6, "Qty", "B", 0, "L", false, 0, "")
	pdf.CellFormat(135, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	for _, it := range order.Items {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(135, 6, tr(itemLabel(it)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, money(it.LineTotal), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	totalRow := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(150, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, money(amount), "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal", order.Subtotal, false)
	if order.ServiceType == domain.ServiceDelivery {
		totalRow("Delivery fee", order.DeliveryFee, false)
	}
	totalRow("Total", order.Total, true)
	if rest.GSTRegistered {
		totalRow("Includes GST", order.Tax, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func itemLabel(it domain.OrderItem) string {
	label := it.Name
	var extras []string
	if it.SelectedVariant != "" {
		extras = append(extras, it.SelectedVariant)
	}
	extras = append(extras, it.SelectedAddOns...)
	if len(extras) > 0 {
		label += " (" + strings.Join(extras, ", ") + ")"
	}
	return label
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
