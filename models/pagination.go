package models

import (
	"net/url"
	"strconv"
)

// MaxPageLimit, tek sayfada dönebilecek en fazla kayıt.
const MaxPageLimit = 100

// Page, liste endpoint'lerinin ortak sayfalama parametreleri (?page=&limit=).
type Page struct {
	Page  int
	Limit int
}

// Offset, SQL OFFSET değeri.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage, query string'den sayfalama parametrelerini okur.
// Geçersiz veya eksik değerlerde varsayılanlar kullanılır; limit MaxPageLimit ile sınırlanır.
func ParsePage(q url.Values, defaultLimit int) Page {
	p := Page{Page: 1, Limit: defaultLimit}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// CountByKey, "stats" endpoint'lerinin ortak yardımcısı: verilen anahtarların
// hepsi sıfır değeriyle başlatılmış bir sayaç haritası döner. Böylece hiç kaydı
// olmayan durumlar da yanıtta 0 olarak görünür.
func CountByKey[K ~string](keys []K) map[K]int {
	m := make(map[K]int, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}
