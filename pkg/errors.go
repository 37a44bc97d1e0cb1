// Package pkg, uygulama genelinde kullanılan yardımcı tipler ve fonksiyonları barındırır.
package pkg

import "errors"

// Sentinel error'lar: Go'da hata türlerini ayırt etmenin standart yolu.
//
// Service katmanı bunları fmt.Errorf("%w: ...", pkg.ErrNotFound) ile sarar,
// response.go'daki boundary errors.Is ile HTTP status koduna çevirir.
// Böylece service'ler HTTP bilmeden "bu bir 404'tür" diyebilir.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)
