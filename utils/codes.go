package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const digits = "0123456789"

// GenerateNumericCode returns n random decimal digits, e.g. a password reset code.
// crypto/rand + rand.Int avoids modulo bias.
func GenerateNumericCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	max := big.NewInt(int64(len(digits)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(digits[num.Int64()])
	}
	return sb.String(), nil
}

// MaskEmail hides most of the local part and domain name for logs: j***n@g****.com
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local, domain := parts[0], parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 && len(domainParts[0]) > 1 {
		domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
	}
	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
