package invoice

import (
	"bytes"
	"fmt"

	"kirana/models"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductDetail is the slice of product data the invoice needs.
type ProductDetail struct {
	Name  string
	Price float64
}

// Render produces a PDF invoice for the order with an embedded QR code
// carrying the order number. Unresolvable products are printed by ID.
func Render(order *models.Order, buyer *models.User, products map[primitive.ObjectID]ProductDetail) ([]byte, error) {
	qrData := fmt.Sprintf("order=%s&amount=%.2f", order.OrderNo, order.TotalAmount)
	qrCode, err := qrcode.Encode(qrData, qrcode.Medium, 128)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Order: %s\nBilled to: %s (%s)\nDate: %s\nStatus: %s / %s",
		order.OrderNo,
		buyer.Name,
		buyer.Email,
		order.CreatedAt.Format("02 Jan 2006 15:04"),
		order.Status,
		order.PaymentStatus,
	), "", "L", false)
	pdf.Ln(6)

	// Line-item table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, line := range order.Products {
		name := line.Product.Hex()
		price := decimal.Zero
		if detail, ok := products[line.Product]; ok {
			name = detail.Name
			price = decimal.NewFromFloat(detail.Price)
		}
		amount := price.Mul(decimal.NewFromInt(int64(line.Quantity)))

		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, decimal.NewFromFloat(order.TotalAmount).StringFixed(2), "1", 1, "R", false, 0, "")

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrCode))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imgOpts, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, "Scan the code to look up this order.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
