package common

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrDataAccess, err, nil)
	}
	if mongo.IsDuplicateKeyError(err) {
		return Wrap(ErrDuplicate, err, nil)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Wrap(ErrConnection, err, nil)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		case cmdErr.Code >= 100 && cmdErr.Code < 200:
			return Wrap(ErrConnection, err, nil)
		default:
			return Wrap(ErrDataAccess, err, nil)
		}
	}
	return Wrap(ErrDataAccess, err, nil)
}

// ConvertSQLError chuyển đổi lỗi database/sql (postgres, mysql, sqlite) sang lỗi hệ thống
func ConvertSQLError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, sql.ErrConnDone) {
		return Wrap(ErrConnection, err, nil)
	}
	// Các driver trả về thông điệp khác nhau cho lỗi trùng khóa
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") {
		return Wrap(ErrDuplicate, err, nil)
	}
	return Wrap(ErrDataAccess, err, nil)
}
