package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
)

// 驗證ctx是否有token payload
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Value(constants.AuthorizationPayloadKey).(*token.Payload)
		if !ok {
			api.ErrorJSON(w, er.New(er.UnauthenticatedCode, ""))
			return
		}
		next.ServeHTTP(w, r)
	})
}
