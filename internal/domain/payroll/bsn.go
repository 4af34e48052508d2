package payroll

// ValidateBSN applies the eleven-check: the first eight digits weighted 9 down to 2, the
// ninth digit subtracted, and the sum divisible by 11.
func ValidateBSN(bsn string) bool {
	if len(bsn) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		c := bsn[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if i == 8 {
			sum -= digit
			continue
		}
		sum += digit * (9 - i)
	}
	return sum%11 == 0
}
