package er

import (
	"errors"
	"fmt"
	"net/http"
)

// 錯誤碼: 前三位為HTTP status, 後三位為流水號
type Code int

const (
	BadRequestCode        Code = 400001
	InsufficientStockCode Code = 400002
	InvalidTransitionCode Code = 400003
	InvalidValueCode      Code = 400004
	UnauthenticatedCode   Code = 401001
	UnauthorizedCode      Code = 403001
	NotFoundCode          Code = 404001
	ConflictCode          Code = 409001
	InternalErrorCode     Code = 500001
	UpstreamErrorCode     Code = 502001
)

// 預設錯誤訊息 handler未提供訊息時使用
var ErrStrMap = map[Code]string{
	BadRequestCode:        "bad request",
	InsufficientStockCode: "insufficient stock",
	InvalidTransitionCode: "invalid status transition",
	InvalidValueCode:      "invalid value",
	UnauthenticatedCode:   "unauthenticated",
	UnauthorizedCode:      "forbidden",
	NotFoundCode:          "resource not found",
	ConflictCode:          "resource conflict",
	InternalErrorCode:     "internal server error",
	UpstreamErrorCode:     "upstream service error",
}

// HTTPStatus 從錯誤碼取得對應的HTTP status
func (c Code) HTTPStatus() int {
	status := int(c) / 1000
	if http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

type AnaError struct {
	Code Code
	Msg  string
	Err  error
}

func (e *AnaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err.Error())
	}
	return e.Msg
}

func (e *AnaError) Unwrap() error {
	return e.Err
}

func New(code Code, msg string) *AnaError {
	if msg == "" {
		msg = ErrStrMap[code]
	}
	return &AnaError{Code: code, Msg: msg}
}

// Wrap 包裝底層錯誤 保留原始錯誤供server端log使用
func Wrap(code Code, msg string, err error) *AnaError {
	if msg == "" {
		msg = ErrStrMap[code]
	}
	return &AnaError{Code: code, Msg: msg, Err: err}
}

// FromError 解析err為AnaError, 非AnaError一律視為internal error
func FromError(err error) *AnaError {
	var anaErr *AnaError
	if errors.As(err, &anaErr) {
		return anaErr
	}
	return &AnaError{Code: InternalErrorCode, Msg: ErrStrMap[InternalErrorCode], Err: err}
}

func CodeOf(err error) Code {
	return FromError(err).Code
}
