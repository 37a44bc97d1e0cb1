// Package models, uygulamanın domain modellerini ve request struct'larını tanımlar.
//
// Her request struct'ının bir Validate() metodu vardır. Handler body'yi parse
// ettikten sonra Validate çağırır; hata pkg.ErrBadRequest ile sarılı döner ve
// response boundary'si bunu 400'e çevirir. Böylece service katmanına sadece
// şekli doğrulanmış veri ulaşır.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/akinalp/fireshield/pkg"
)

// emailRegex, basit email format kontrolü.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// passwordSpecials, şifrede en az bir tanesi bulunması gereken özel karakterler.
const passwordSpecials = "@$!%*?&"

// invalid, pkg.ErrBadRequest ile sarılmış bir validation hatası üretir.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", pkg.ErrBadRequest, fmt.Sprintf(format, args...))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email is required")
	}
	if !emailRegex.MatchString(email) {
		return invalid("email must be an email")
	}
	return nil
}

// ValidatePassword, şifre kuralları: en az 8 karakter, en az bir küçük harf,
// bir büyük harf, bir rakam ve bir özel karakter (@$!%*?&).
func ValidatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return invalid("%s must be longer than or equal to 8 characters", field)
	}

	var lower, upper, digit, special bool
	for _, ch := range password {
		switch {
		case unicode.IsLower(ch):
			lower = true
		case unicode.IsUpper(ch):
			upper = true
		case unicode.IsDigit(ch):
			digit = true
		case strings.ContainsRune(passwordSpecials, ch):
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return invalid("Password must contain at least one uppercase letter, one lowercase letter, one number and one special character")
	}
	return nil
}

// validateLength, trim edilmiş değerin rune uzunluğunu [min, max] aralığında kontrol eder.
func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		return invalid("%s must be longer than or equal to %d characters", field, min)
	}
	if max > 0 && n > max {
		return invalid("%s must be shorter than or equal to %d characters", field, max)
	}
	return nil
}

// trimPtr, nil olmayan bir *string'i yerinde trim eder.
func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
