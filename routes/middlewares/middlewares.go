package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/drugis/mcda-patient/httpx"
	"github.com/drugis/mcda-patient/log"
)

// SharedPassword gates a subtree behind HTTP basic auth with a single
// shared credential. The plaintext password is hashed once at wire
// time; only the hash is kept around for the comparisons.
func SharedPassword(username, password string) func(http.Handler) http.Handler {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("middlewares.shared_password:", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != username || bcrypt.CompareHashAndPassword(hash, []byte(pass)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.basic")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CacheControl marks responses as cacheable for the given duration.
// Used for the static client assets.
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	header := "max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", header)
			next.ServeHTTP(w, r)
		})
	}
}
