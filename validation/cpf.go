package validation

// IsCPF reports whether s is an 11-digit CPF with valid check digits.
// Punctuation ("123.456.789-09") is accepted. Numbers made of a single
// repeated digit are rejected even though their check digits add up.
func IsCPF(s string) bool {
	digits := make([]int, 0, 11)
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	if len(digits) != 11 {
		return false
	}

	repeated := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	return CPFCheckDigit(digits[:9]) == digits[9] && CPFCheckDigit(digits[:10]) == digits[10]
}

// CPFCheckDigit computes the next CPF check digit for the given prefix of 9
// or 10 digits.
func CPFCheckDigit(prefix []int) int {
	sum := 0
	weight := len(prefix) + 1
	for _, d := range prefix {
		sum += d * weight
		weight--
	}
	rem := (sum * 10) % 11
	if rem == 10 {
		return 0
	}
	return rem
}
