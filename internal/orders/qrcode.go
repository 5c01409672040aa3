package orders

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// ReceiptGenerator renders the code a courier scans on delivery.
type ReceiptGenerator interface {
	Generate(order Order) ([]byte, error)
}

// QRReceipts encodes the order reference and total as a PNG QR code.
type QRReceipts struct {
	Issuer string
}

func (g QRReceipts) Generate(order Order) ([]byte, error) {
	issuer := g.Issuer
	if issuer == "" {
		issuer = "brazzaeats"
	}
	payload := fmt.Sprintf("%s:order:%s:%d", issuer, order.ID, order.Total)
	return qrcode.Encode(payload, qrcode.Medium, qrSize)
}
