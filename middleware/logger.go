package middleware

import (
	"net/http"
	"time"

	"github.com/fatih/color"
)

// LoggerMiddleware prints one colored line per request: green for success,
// yellow for client errors, red for server errors.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		line := "[%s] %s %s %d %s from %s"
		args := []interface{}{start.Format("2006-01-02 15:04:05"), r.Method, r.URL.Path, ww.statusCode, time.Since(start).Round(time.Microsecond), clientIP(r)}
		switch {
		case ww.statusCode >= 500:
			color.Red(line, args...)
		case ww.statusCode >= 400:
			color.Yellow(line, args...)
		default:
			color.Green(line, args...)
		}
	})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	color.Yellow("[404] %s %s (route not found)", r.Method, r.URL.Path)
	respondWithError(w, http.StatusNotFound, "Route not found")
}
