package services

import "strconv"

var (
	personalCodeWeights         = [10]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1}
	personalCodeFallbackWeights = [10]int{3, 4, 5, 6, 7, 8, 9, 1, 2, 3}
)

// IsValidPersonalCode checks a Lithuanian personal code (asmens kodas):
// 11 digits, gender/century digit 1-6, plausible month and day, and the
// mod-11 check digit.
func IsValidPersonalCode(code string) bool {
	if len(code) != 11 {
		return false
	}
	digits := make([]int, 11)
	for i, r := range code {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}

	if digits[0] < 1 || digits[0] > 6 {
		return false
	}
	month, _ := strconv.Atoi(code[3:5])
	day, _ := strconv.Atoi(code[5:7])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}

	return personalCodeChecksum(digits) == digits[10]
}

func personalCodeChecksum(digits []int) int {
	sum := 0
	for i, w := range personalCodeWeights {
		sum += digits[i] * w
	}
	if sum%11 != 10 {
		return sum % 11
	}

	sum = 0
	for i, w := range personalCodeFallbackWeights {
		sum += digits[i] * w
	}
	if sum%11 != 10 {
		return sum % 11
	}
	return 0
}
