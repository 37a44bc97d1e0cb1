// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz; her tablo için bir interface
// (XxxRepository) ve onun SQLite implementasyonu (sqliteXxxRepo) vardır.
// Constructor'lar interface döner, böylece service testleri mock repository
// ile DB olmadan yazılabilir.
//
// Hata sözleşmesi:
//   - Kayıt yoksa pkg.ErrNotFound (sarılı, domain'e özel mesajla) döner.
//   - UNIQUE ihlalleri domain'e özel bir sentinel hatasına çevrilir
//     (ör. "Already enrolled in this session"). Pre-check yapılmış olsa bile
//     son söz index'indir; yarış durumunda da aynı hata döner.
//   - Diğer tüm hatalar "failed to ..." ile sarılıp yukarı taşınır.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/pkg"
)

// rowScanner, *sql.Row ve *sql.Rows'un ortak Scan metodu.
// Tek satır ve çok satır sorgularında aynı scan fonksiyonunu kullanmak için.
type rowScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return pkg.IsUniqueViolation(err)
}

// isForeignKeyViolation, SQLite FOREIGN KEY constraint hatasını kontrol eder.
func isForeignKeyViolation(err error) bool {
	return pkg.IsForeignKeyViolation(err)
}

// whereBuilder, opsiyonel filtrelerden WHERE cümlesi kurar.
// Değerler her zaman "?" placeholder ile bağlanır, string birleştirme yapılmaz.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// expectAffected, UPDATE/DELETE sonucunda en az bir satır etkilendiğini doğrular.
// Hiç satır etkilenmediyse notFound hatası döner.
func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// countGrouped, "SELECT key, COUNT(*) ... GROUP BY key" sorgusunu çalıştırır
// ve sonucu verilen sayaç haritasına ekler. Toplam sayıyı döner.
func countGrouped[K ~string](ctx context.Context, db database.TxQuerier, query string, into map[K]int) (int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return 0, err
		}
		into[K(key)] += n
		total += n
	}
	return total, rows.Err()
}
