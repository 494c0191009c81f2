package casbinAuthorization

import (
	"log"
	"net/http"

	"github.com/casbin/casbin"

	"rental_service/authorization"
)

func CasbinMiddleware(e *casbin.Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole, err := authorization.ExtractRole(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				log.Println("enforce error:", err)
				http.Error(w, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if !res {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
