package password

import (
	"fmt"
	"math"
	"strings"

	"api/internal/configuration"
	"api/internal/models"
)

// symbolSet is the explicit membership set for the symbol class. Class
// checks never use locale-aware classification.
const symbolSet = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Policy configures a single evaluation. Immutable once passed in.
type Policy struct {
	MinLength      int
	MaxLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSymbol  bool
	MinUniqueChars int
	CheckDenylist  bool
}

// DefaultPolicy returns the policy enforced at registration and password change.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:      configuration.PasswordMinLength,
		MaxLength:      configuration.PasswordMaxLength,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSymbol:  true,
		MinUniqueChars: configuration.PasswordMinUniqueChars,
		CheckDenylist:  true,
	}
}

// PolicyFromConfig is DefaultPolicy with the length and uniqueness bounds
// taken from the deployment's configuration.
func PolicyFromConfig(cfg models.AuthConfig) Policy {
	policy := DefaultPolicy()
	policy.MinLength = cfg.PasswordMinLength
	policy.MaxLength = cfg.PasswordMaxLength
	policy.MinUniqueChars = cfg.PasswordUniqueChars
	return policy
}

// Evaluation is the result of scoring one candidate. Never persisted.
type Evaluation struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
	Score      float64  `json:"score"`
	Label      string   `json:"label"`
}

// Label maps a score to its strength label.
func Label(score float64) string {
	switch {
	case score < 3:
		return "Very Weak"
	case score < 5:
		return "Weak"
	case score < 7:
		return "Fair"
	case score < 8.5:
		return "Strong"
	default:
		return "Very Strong"
	}
}

type classCounts struct {
	upper, lower, digit, symbol int
}

func countClasses(candidate string) classCounts {
	var c classCounts
	for _, r := range candidate {
		switch {
		case r >= 'A' && r <= 'Z':
			c.upper++
		case r >= 'a' && r <= 'z':
			c.lower++
		case r >= '0' && r <= '9':
			c.digit++
		case strings.ContainsRune(symbolSet, r):
			c.symbol++
		}
	}
	return c
}

func uniqueChars(candidate string) int {
	seen := make(map[rune]struct{}, len(candidate))
	for _, r := range strings.ToLower(candidate) {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// scaled awards up to max points for value over minimum, capped.
func scaled(value, minimum int, max float64) float64 {
	if value <= minimum || minimum <= 0 {
		return 0
	}
	score := max * float64(value-minimum) / float64(minimum)
	return math.Min(max, score)
}

// Evaluate scores a candidate password against the policy. It is pure and
// deterministic, so clients can call it on every keystroke for live
// feedback. Violations accumulate independently of the score: a long
// password is still invalid if it contains personal information.
func Evaluate(candidate string, personalInfo []string, policy Policy) Evaluation {
	var violations []string
	var score float64

	length := len(candidate)

	if length < policy.MinLength {
		violations = append(violations,
			fmt.Sprintf("password must be at least %d characters long", policy.MinLength))
	} else if length > policy.MaxLength {
		violations = append(violations,
			fmt.Sprintf("password must be at most %d characters long", policy.MaxLength))
	}
	score += scaled(length, policy.MinLength, 2)

	counts := countClasses(candidate)
	classes := []struct {
		required bool
		count    int
		name     string
	}{
		{policy.RequireUpper, counts.upper, "an uppercase letter"},
		{policy.RequireLower, counts.lower, "a lowercase letter"},
		{policy.RequireDigit, counts.digit, "a digit"},
		{policy.RequireSymbol, counts.symbol, "a symbol"},
	}
	for _, class := range classes {
		if class.count > 0 {
			score++
		} else if class.required {
			violations = append(violations, "password must contain "+class.name)
		}
	}

	unique := uniqueChars(candidate)
	if unique < policy.MinUniqueChars {
		violations = append(violations,
			fmt.Sprintf("password must contain at least %d unique characters", policy.MinUniqueChars))
	}
	score += scaled(unique, policy.MinUniqueChars, 2)

	if policy.CheckDenylist && isCommonPassword(candidate) {
		violations = append(violations, "password is too common")
	}

	if token, found := matchPersonalInfo(candidate, personalInfo); found {
		violations = append(violations,
			fmt.Sprintf("password must not contain personal information (%q)", token))
	}

	// Bonus points reward depth, not just presence.
	if length >= 16 {
		score++
	}
	if length >= 20 {
		score++
	}
	for _, count := range []int{counts.upper, counts.lower, counts.digit, counts.symbol} {
		if count >= 2 {
			score += 0.5
		}
	}

	score = math.Min(10, math.Max(0, score))
	score = math.Round(score*100) / 100

	return Evaluation{
		Valid:      len(violations) == 0,
		Violations: violations,
		Score:      score,
		Label:      Label(score),
	}
}

// matchPersonalInfo reports the first personal-info token of length >= 3
// contained in the candidate, case-insensitively. It short-circuits on the
// first match instead of enumerating all of them.
func matchPersonalInfo(candidate string, personalInfo []string) (string, bool) {
	lowered := strings.ToLower(candidate)
	for _, token := range personalInfo {
		token = strings.TrimSpace(token)
		if len(token) < 3 {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(token)) {
			return token, true
		}
	}
	return "", false
}
