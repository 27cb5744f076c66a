package util

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
)

// GetTokenPayloadFromContext 從ctx取出token payload 未登入回nil
func GetTokenPayloadFromContext(ctx context.Context) *token.Payload {
	payload, ok := ctx.Value(constants.AuthorizationPayloadKey).(*token.Payload)
	if !ok {
		return nil
	}
	return payload
}

func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(constants.RequestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return "unknown"
}
