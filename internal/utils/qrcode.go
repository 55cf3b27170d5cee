package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateOrderQR encode l'identifiant de commande en QR (PNG base64, prêt
// pour <img src="...">) — scanné par la boutique au retrait.
func GenerateOrderQR(orderID string) (string, error) {
	png, err := qrcode.Encode(fmt.Sprintf("greenbag:order:%s", orderID), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
