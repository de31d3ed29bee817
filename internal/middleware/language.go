package middleware

import (
	"context"
	"net/http"

	"nyanpass/internal/i18n"
)

// LanguageLookup devuelve el idioma guardado del usuario, si tiene.
type LanguageLookup func(ctx context.Context, uid string) (i18n.Language, bool)

// Language fija el idioma del request: settings del usuario, después
// Accept-Language, después el default. Debe ir después de AuthContext.
func Language(lookup LanguageLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
			if uid := UserID(r.Context()); uid != "" && lookup != nil {
				if stored, ok := lookup(r.Context(), uid); ok && stored.Valid() {
					lang = stored
				}
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), lang)))
		})
	}
}
