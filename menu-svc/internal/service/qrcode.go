package service

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(restaurantID, table string) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the restaurant's menu with the
// table number prefilled for dine-in orders.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(restaurantID, table string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/menu/" + url.PathEscape(restaurantID) + "?table=" + url.QueryEscape(table)
}

func (g DefaultQRGenerator) Generate(restaurantID, table string) ([]byte, error) {
	return qrcode.Encode(g.Link(restaurantID, table), qrcode.Medium, 256)
}
