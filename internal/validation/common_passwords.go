package validation

import "strings"

// commonPasswords holds frequently breached passwords long enough to pass the
// length rule. Comparison is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password1234":     {},
	"password123!":     {},
	"password@123":     {},
	"passw0rd1234":     {},
	"p@ssw0rd1234":     {},
	"p@ssword1234":     {},
	"qwerty123456":     {},
	"qwertyuiop12":     {},
	"qwerty@12345":     {},
	"123456789abc":     {},
	"abc123456789":     {},
	"1q2w3e4r5t6y":     {},
	"1qaz2wsx3edc":     {},
	"iloveyou1234":     {},
	"welcome12345":     {},
	"welcome@1234":     {},
	"letmein12345":     {},
	"admin1234567":     {},
	"administrator1":   {},
	"changeme1234":     {},
	"sunshine1234":     {},
	"football1234":     {},
	"baseball1234":     {},
	"princess1234":     {},
	"monkey123456":     {},
	"dragon123456":     {},
	"trustno1trustno1": {},
	"mypassword12":     {},
	"mypassword123":    {},
	"password12345":    {},
	"password123456":   {},
	"qwerty1234567":    {},
	"zaq12wsxcde3":     {},
}

func isCommonPassword(s string) bool {
	_, ok := commonPasswords[strings.ToLower(s)]
	return ok
}
