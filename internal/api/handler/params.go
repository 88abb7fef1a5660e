package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// idParam reads a positive numeric path parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
