package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// Locale matches ?lang= or Accept-Language against supported and stores the
// chosen tag. The first supported tag is the fallback.
func Locale(supported ...language.Tag) func(http.Handler) http.Handler {
	if len(supported) == 0 {
		supported = []language.Tag{language.English}
	}
	matcher := language.NewMatcher(supported)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := matchLocale(matcher, supported, r)
			w.Header().Set("Content-Language", tag.String())
			ctx := context.WithValue(r.Context(), localeContextKey{}, tag)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func matchLocale(m language.Matcher, supported []language.Tag, r *http.Request) language.Tag {
	var prefs []language.Tag
	if q := r.URL.Query().Get("lang"); q != "" {
		if t, err := language.Parse(q); err == nil {
			prefs = append(prefs, t)
		}
	}
	if accept, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		prefs = append(prefs, accept...)
	}
	if len(prefs) == 0 {
		return supported[0]
	}
	_, idx, conf := m.Match(prefs...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// LocaleFromContext returns the negotiated tag, or English.
func LocaleFromContext(ctx context.Context) language.Tag {
	if v, ok := ctx.Value(localeContextKey{}).(language.Tag); ok {
		return v
	}
	return language.English
}
