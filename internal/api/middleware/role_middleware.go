package middleware

import (
	"context"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
)

// RoleMiddleware 有登入就把role解析進context 沒登入或查不到照常放行
// 給owner-or-admin類的路由用 不做權限攔截 攔截交給handler/service
func RoleMiddleware(userService service.IUserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := util.GetTokenPayloadFromContext(r.Context())
			if payload == nil {
				next.ServeHTTP(w, r)
				return
			}

			role, err := userService.ResolveRole(r.Context(), payload.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), constants.AuthorizationRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
