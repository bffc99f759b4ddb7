package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var phoneRe = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// NewOTP returns a 6-digit one-time code.
func NewOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

func ValidPhone(phone string) bool {
	return phoneRe.MatchString(strings.ReplaceAll(phone, " ", ""))
}
