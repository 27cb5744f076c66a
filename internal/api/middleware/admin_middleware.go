package middleware

import (
	"context"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
)

// AdminMiddleware 檢查登入者是否為admin
// role每次查db 不寫進token 停權/降權即時生效
func AdminMiddleware(userService service.IUserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := util.GetTokenPayloadFromContext(r.Context())
			if payload == nil {
				api.ErrorJSON(w, er.New(er.UnauthenticatedCode, ""))
				return
			}

			role, err := userService.ResolveRole(r.Context(), payload.UserID)
			if err != nil {
				api.ErrorJSON(w, err)
				return
			}
			if role != constants.RoleAdmin {
				api.ErrorJSON(w, er.New(er.UnauthorizedCode, "admin only"))
				return
			}

			ctx := context.WithValue(r.Context(), constants.AuthorizationRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
