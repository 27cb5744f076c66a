package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func getPayload(r *http.Request) *token.Payload {
	payload := util.GetTokenPayloadFromContext(r.Context())
	if payload == nil {
		return &token.Payload{
			UPN:    "unknown",
			UserID: uuid.Nil,
		}
	}
	return payload
}

// 記錄request 請求
// 有一起處理recover
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{
				ResponseWriter: w,
			}

			if logger == nil {
				temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
				logger = &temp
			}

			defer func() {
				if err := recover(); err != nil {
					payload := getPayload(r)

					var errMsg string
					if e, ok := err.(error); ok {
						errMsg = e.Error()
					} else {
						errMsg = fmt.Sprintf("%v", err)
					}
					logger.Error().
						Str("request_id", util.GetRequestID(r.Context())).
						Str("upn", payload.UPN).
						Str("user_id", payload.UserID.String()).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Str("error", errMsg).
						Bytes("stack", debug.Stack()).
						Msg("request panicked")

					api.ErrorJSON(recoder, er.New(er.InternalErrorCode, ""))
				}
			}()

			next.ServeHTTP(recoder, r)

			payload := getPayload(r)
			logger.Info().
				Str("request_id", util.GetRequestID(r.Context())).
				Str("upn", payload.UPN).
				Str("user_id", payload.UserID.String()).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", recoder.Status()).
				Msg("request completed")
		})
	}
}
