package api

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/er"
)

type Response struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

type ResponseError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// 分頁資訊 放在Response.Meta
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}

func SuccessJSON(w http.ResponseWriter, data any, meta any) {
	writeJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

func CreatedJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Data: data})
}

// ErrorJSON 任意error轉成統一錯誤回應
// 非AnaError一律視為internal error 不洩漏底層錯誤內容
func ErrorJSON(w http.ResponseWriter, err error) {
	anaErr := er.FromError(err)
	msg := anaErr.Msg
	if anaErr.Code == er.InternalErrorCode {
		msg = er.ErrStrMap[er.InternalErrorCode]
	}
	writeJSON(w, anaErr.Code.HTTPStatus(), ResponseError{
		Error: msg,
		Code:  int(anaErr.Code),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
