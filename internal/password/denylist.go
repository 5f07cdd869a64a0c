package password

import "strings"

// commonPasswords is a static denylist of credentials seen at the top of
// public breach corpora. Matching is case-insensitive and exact.
var commonPasswords = map[string]struct{}{
	"password":       {},
	"password1":      {},
	"password123":    {},
	"passw0rd":       {},
	"123456":         {},
	"1234567":        {},
	"12345678":       {},
	"123456789":      {},
	"1234567890":     {},
	"qwerty":         {},
	"qwerty123":      {},
	"qwertyuiop":     {},
	"abc123":         {},
	"111111":         {},
	"123123":         {},
	"letmein":        {},
	"welcome":        {},
	"welcome1":       {},
	"monkey":         {},
	"dragon":         {},
	"iloveyou":       {},
	"sunshine":       {},
	"princess":       {},
	"football":       {},
	"baseball":       {},
	"superman":       {},
	"batman":         {},
	"trustno1":       {},
	"master":         {},
	"shadow":         {},
	"michael":        {},
	"jennifer":       {},
	"charlie":        {},
	"696969":         {},
	"654321":         {},
	"666666":         {},
	"admin":          {},
	"administrator":  {},
	"root":           {},
	"login":          {},
	"starwars":       {},
	"whatever":       {},
	"freedom":        {},
	"secret":         {},
	"summer":         {},
	"hello123":       {},
	"changeme":       {},
	"default":        {},
	"passwort":       {},
	"azerty":         {},
	"1q2w3e4r":       {},
	"zaq12wsx":       {},
	"password!":      {},
	"p@ssword":       {},
	"p@ssw0rd":       {},
	"correcthorse":   {},
	"letmein123":     {},
	"qazwsx":         {},
	"michelle":       {},
	"jordan23":       {},
	"liverpool":      {},
	"computer":       {},
	"november":       {},
	"internet":       {},
	"basketball":     {},
	"pokemon":        {},
	"cheese":         {},
	"password1234":   {},
	"adminadmin":     {},
	"rootroot":       {},
	"testtest":       {},
	"guest":          {},
	"temp123":        {},
	"welcome123":     {},
	"springfield":    {},
	"mustang":        {},
	"harley":         {},
	"ranger":         {},
	"buster":         {},
	"thomas":         {},
	"robert":         {},
	"soccer":         {},
	"hockey":         {},
	"killer":         {},
	"george":         {},
	"andrew":         {},
	"porsche":        {},
	"ferrari":        {},
	"corvette":       {},
	"mercedes":       {},
	"maverick":       {},
	"chelsea":        {},
	"arsenal":        {},
	"barcelona":      {},
	"samsung":        {},
	"windows":        {},
	"oracle":         {},
	"linkedin":       {},
	"facebook":       {},
	"google":         {},
	"pa55word":       {},
	"passp@ss":       {},
	"0000":           {},
	"1111":           {},
	"access":         {},
	"flower":         {},
	"hottie":         {},
	"lovely":         {},
	"zxcvbnm":        {},
	"asdfghjkl":      {},
	"asdf1234":       {},
	"1qaz2wsx":       {},
}

func isCommonPassword(candidate string) bool {
	_, found := commonPasswords[strings.ToLower(candidate)]
	return found
}
