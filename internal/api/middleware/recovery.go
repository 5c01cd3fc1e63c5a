package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/timekeep/timekeep/internal/api/response"
	"github.com/timekeep/timekeep/internal/domain"
)

// Recovery middleware catches panics and returns a 500 error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logrus.WithFields(logrus.Fields{
					"panic": err,
					"stack": string(debug.Stack()),
				}).Error("panic recovered")
				response.Error(w, domain.NewInternalError(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
