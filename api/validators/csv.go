package validators

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

const csvFormField = "file"

// ReadCSVBody returns the uploaded CSV text. The body may be the raw file or a
// multipart form with the file under "file". Bodies over maxBytes are rejected.
func ReadCSVBody(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	var (
		raw []byte
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		raw, err = readMultipartFile(r, maxBytes)
	} else {
		raw, err = io.ReadAll(r.Body)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "csv file too large").
				WithDetails(map[string]any{"max_bytes": tooLarge.Limit})
		}
		if typed := pkgerrors.As(err); typed != nil {
			return "", typed
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid csv upload")
	}

	if !utf8.Valid(raw) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "csv file must be utf-8 text")
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "csv file is empty")
	}
	return text, nil
}

func readMultipartFile(r *http.Request, maxBytes int64) ([]byte, error) {
	memory := maxBytes
	if memory <= 0 {
		memory = 32 << 20
	}
	if err := r.ParseMultipartForm(memory); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile(csvFormField)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart field \"file\" required")
	}
	defer file.Close()
	return io.ReadAll(file)
}
