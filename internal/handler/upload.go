package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"socialplay/internal/model"
)

// formUpload returns the file submitted under field, or nil when the form has
// no such file. Callers must close the returned file when it is not nil.
func formUpload(r *http.Request, field string) (*model.Upload, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil, nil
	}

	return &model.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, file, nil
}
