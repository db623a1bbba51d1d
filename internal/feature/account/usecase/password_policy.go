package usecase

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
	// maxSimilarity is the highest match ratio allowed between the password
	// and an account attribute.
	maxSimilarity = 0.7
)

// commonPasswords holds passwords rejected regardless of length.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password12": {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwertyuiop": {},
	"qwerty123":  {},
	"iloveyou":   {},
	"sunshine":   {},
	"princess":   {},
	"football":   {},
	"baseball":   {},
	"welcome1":   {},
	"abc12345":   {},
	"letmein1":   {},
	"trustno1":   {},
	"11111111":   {},
	"00000000":   {},
	"passw0rd":   {},
}

// validatePassword checks the password against the account password policy.
// All broken rules are reported together so the form can list them at once.
func validatePassword(password, username, email string) error {
	var problems []string

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	for _, attr := range []struct{ label, value string }{
		{"username", username},
		{"email address", email},
	} {
		if tooSimilar(password, attr.value) {
			problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr.label))
		}
	}

	if len(problems) > 0 {
		return &PasswordPolicyError{Problems: problems}
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilar reports whether the password is close to an account attribute,
// ignoring case. The whole value and each of its alphanumeric parts (so an
// email's local part and domain labels) are compared by match ratio; the
// whole value is also rejected when either string contains the other.
// Values shorter than 3 characters are not checked for containment.
func tooSimilar(password, value string) bool {
	p := strings.ToLower(password)
	v := strings.ToLower(value)
	if p == "" || v == "" {
		return false
	}
	if len([]rune(v)) >= 3 && (strings.Contains(p, v) || strings.Contains(v, p)) {
		return true
	}

	candidates := append([]string{v}, strings.FieldsFunc(v, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})...)
	for _, c := range candidates {
		if similarity(p, c) >= maxSimilarity {
			return true
		}
	}
	return false
}

// similarity returns 2*M/T, where M is the number of runes in the matching
// blocks found by repeatedly taking the longest common substring and T is
// the total length of both strings.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	i, j, n := longestCommon(a, b)
	if n == 0 {
		return 0
	}
	return n + matchingRunes(a[:i], b[:j]) + matchingRunes(a[i+n:], b[j+n:])
}

// longestCommon returns the start in a, the start in b and the length of
// the first longest common substring.
func longestCommon(a, b []rune) (int, int, int) {
	var bestI, bestJ, best int
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > best {
				best = cur[j]
				bestI, bestJ = i-best, j-best
			}
		}
		prev = cur
	}
	return bestI, bestJ, best
}
