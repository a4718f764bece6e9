package httperrors

import (
	"errors"
	"net/http"

	"github.com/yourname/gdrive_lite/internal/models"
)

// Status сопоставляет доменную ошибку с HTTP-статусом.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrBadContentType),
		errors.Is(err, models.ErrUnsafeFilename),
		errors.Is(err, models.ErrStreamRead):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrStreamWrite),
		errors.Is(err, models.ErrDirectoryUnreadable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func Write(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), Status(err))
}
