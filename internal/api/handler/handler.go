package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeJSON 解析並驗證request body
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return er.New(er.BadRequestCode, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return er.New(er.BadRequestCode, err.Error())
	}
	return nil
}

func parsePositiveInt(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, er.New(er.BadRequestCode, "invalid paging value")
	}
	return v, nil
}

func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, er.New(er.BadRequestCode, "invalid "+name)
	}
	return uint(id), nil
}

// actorFromContext 從ctx組出請求身分
// role由admin middleware寫入 一般請求預設為user
func actorFromContext(ctx context.Context) (service.Actor, error) {
	payload := util.GetTokenPayloadFromContext(ctx)
	if payload == nil {
		return service.Actor{}, er.New(er.UnauthenticatedCode, "")
	}
	role := constants.RoleUser
	if v, ok := ctx.Value(constants.AuthorizationRoleKey).(constants.RoleEnum); ok {
		role = v
	}
	return service.Actor{UserID: payload.UserID, Role: role}, nil
}
