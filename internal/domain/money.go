package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way the storefront displays prices,
// e.g. "Rp 15.000".
func FormatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}
