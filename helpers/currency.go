package helpers

import "fmt"

// FormatVND formats a number as Vietnamese Dong. Stored prices are ×1000
// the vendor's thousands-of-VND quotes, which makes them whole Dong.
func FormatVND(amount float64) string {
	// Convert to integer for formatting
	value := int64(amount)

	// Handle negative numbers
	negative := value < 0
	if negative {
		value = -value
	}

	// Convert to string and add thousand separators
	str := fmt.Sprintf("%d", value)
	length := len(str)

	var result string
	if length <= 3 {
		result = str
	} else {
		// Build the formatted string with dots as thousand separators
		for i, digit := range str {
			if i > 0 && (length-i)%3 == 0 {
				result += "."
			}
			result += string(digit)
		}
	}

	if negative {
		return fmt.Sprintf("-%s ₫", result)
	}
	return fmt.Sprintf("%s ₫", result)
}
