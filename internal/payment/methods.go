package payment

// methodLabels maps gateway payment_type codes to display labels.
var methodLabels = map[string]string{
	"credit_card":   "Credit Card",
	"bank_transfer": "Bank Transfer",
	"echannel":      "Mandiri Bill",
	"bca_va":        "BCA Virtual Account",
	"bni_va":        "BNI Virtual Account",
	"bri_va":        "BRI Virtual Account",
	"permata_va":    "Permata Virtual Account",
	"other_va":      "Virtual Account",
	"gopay":         "GoPay",
	"shopeepay":     "ShopeePay",
	"qris":          "QRIS",
	"indomaret":     "Indomaret",
	"alfamart":      "Alfamart",
	"akulaku":       "Akulaku",
}

// MethodLabel falls back to the raw payment_type for unknown codes.
func MethodLabel(paymentType string) string {
	if label, ok := methodLabels[paymentType]; ok {
		return label
	}
	return paymentType
}
