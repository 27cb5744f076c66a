package service

import (
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
)

// repo層sentinel error → 對外錯誤碼
// msg為空時用錯誤碼預設訊息
func mapDbErr(err error, msg string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return er.New(er.NotFoundCode, msg)
	case errors.Is(err, db.ErrNotEnoughStock):
		return er.New(er.InsufficientStockCode, msg)
	case errors.Is(err, db.ErrInvalidTransition):
		return er.New(er.InvalidTransitionCode, msg)
	case errors.Is(err, db.ErrDuplicate):
		return er.New(er.ConflictCode, msg)
	case errors.Is(err, db.ErrInvalidInput):
		return er.New(er.BadRequestCode, msg)
	default:
		return er.Wrap(er.InternalErrorCode, "", err)
	}
}
