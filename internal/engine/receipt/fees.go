package receipt

import "strconv"

// FeeItem is one row of the itemised payment table.
type FeeItem struct {
	Number      string
	Description string
	Amount      int
}

const (
	PaymentTitle = "SECOND SEMESTER PAYMENT FOR 2024/2025 SESSION - 100L"

	// TotalAmount is printed verbatim; it does not depend on the request.
	TotalAmount = 53250
	TotalLabel  = "Total(N): Fifty Three Thousand Two Hundred Fifty Naira Only"
	TotalText   = "N53,250"
)

var FeeItems = [...]FeeItem{
	{"1", "Examination", 1250},
	{"2", "Medical/Student Health Insurance Scheme", 1000},
	{"3", "Library", 1000},
	{"4", "Utilities/Services", 10000},
	{"5", "Finance Charge", 500},
	{"6", "Database Charge", 1000},
	{"7", "ICT Project", 1000},
	{"8", "Facility Management", 2500},
	{"9", "Development Levy", 20000},
	{"10", "Professional Accreditation", 15000},
}

// FormatNaira renders an amount with thousands separators, e.g. 10000 -> "10,000".
func FormatNaira(amount int) string {
	if amount < 0 {
		return "-" + FormatNaira(-amount)
	}
	s := strconv.Itoa(amount)
	digits := make([]byte, 0, len(s)+len(s)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			digits = append(digits, ',')
		}
		digits = append(digits, s[i])
	}
	return string(digits)
}
