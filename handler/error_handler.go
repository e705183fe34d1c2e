package handler

import (
	"net/http"

	"blogger-api/common"
)

// ErrorHandlingMiddleware adapts a handler that reports failures as an
// AppError into an http.HandlerFunc.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
