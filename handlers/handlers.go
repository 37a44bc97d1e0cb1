// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi "ince" kalmaktır:
//  1. Request body'yi parse et (JSON → struct)
//  2. Service katmanını çağır
//  3. Sonucu HTTP response olarak döndür
//
// Handler iş mantığı içermez ve doğrudan DB'ye erişmez.
// Validation request struct'larının Validate() metodunda, kurallar service'tedir.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

// defaultPageLimit, page/limit query parametreleri yoksa kullanılan sayfa boyutu.
const defaultPageLimit = 10

// contextKey, context'te değer taşımak için kullanılan özel key tipi.
type contextKey string

// IdentityContextKey, AuthMiddleware'in doğruladığı kimliği taşır.
const IdentityContextKey contextKey = "identity"

// identityFrom, context'teki kimliği döner. Yoksa 401 yazar ve false döner.
func identityFrom(w http.ResponseWriter, r *http.Request) (*models.Identity, bool) {
	identity, ok := r.Context().Value(IdentityContextKey).(*models.Identity)
	if !ok || identity == nil {
		pkg.ErrorWithMessage(w, r, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return identity, true
}

// decodeJSON, body'yi dst'ye parse eder. Hata durumunda 400 yazar.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID, chi URL parametresini pozitif int64'e çevirir. Geçersizse 400 yazar.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return 0, false
	}
	return id, true
}

// queryInt64, opsiyonel sayısal query parametresi. Yoksa veya geçersizse 0.
func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// queryBool, "true"/"false" query parametresini *bool'a çevirir. Diğer değerler nil.
func queryBool(r *http.Request, name string) *bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

func page(r *http.Request) models.Page {
	return models.ParsePage(r.URL.Query(), defaultPageLimit)
}
