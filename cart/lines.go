package cart

import (
	"context"

	"kirana/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// addLine merges quantity into an existing line or appends a new one.
func addLine(lines []models.CartLine, productID primitive.ObjectID, qty int) []models.CartLine {
	for i := range lines {
		if lines[i].Product == productID {
			lines[i].Quantity += qty
			return lines
		}
	}
	return append(lines, models.CartLine{Product: productID, Quantity: qty})
}

// removeLine decrements quantity and drops the line once it would reach
// zero. The second return reports whether the product was in the cart.
func removeLine(lines []models.CartLine, productID primitive.ObjectID, qty int) ([]models.CartLine, bool) {
	for i := range lines {
		if lines[i].Product != productID {
			continue
		}
		if lines[i].Quantity > qty {
			lines[i].Quantity -= qty
			return lines, true
		}
		return append(lines[:i], lines[i+1:]...), true
	}
	return lines, false
}

// PriceResolver maps product IDs to their current unit price. Products it
// cannot resolve are simply absent from the result.
type PriceResolver func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]float64, error)

// computeTotals recomputes the derived cart fields from the line items.
// Money is accumulated exactly; an unresolved product contributes 0.
func computeTotals(lines []models.CartLine, prices map[primitive.ObjectID]float64) (float64, int) {
	totalAmount := decimal.Zero
	totalItems := 0

	for _, line := range lines {
		price := decimal.NewFromFloat(prices[line.Product])
		totalAmount = totalAmount.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		totalItems += line.Quantity
	}

	amount, _ := totalAmount.Float64()
	return amount, totalItems
}
