package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// formFields значения полей формы или JSON-тела в виде строк,
// как их ввел пользователь. Проверку выполняет usecase.
type formFields map[string]string

func (f formFields) get(key string) string {
	return f[key]
}

// readFields читает application/x-www-form-urlencoded или JSON-тело.
func readFields(w http.ResponseWriter, r *http.Request) (formFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return readJSONFields(r)
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("invalid form body: %w", err)
	}

	fields := formFields{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}

func readJSONFields(r *http.Request) (formFields, error) {
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, errors.New("invalid JSON body")
	}

	fields := formFields{}
	for key, v := range raw {
		switch val := v.(type) {
		case string:
			fields[key] = val
		case json.Number:
			fields[key] = val.String()
		case bool:
			fields[key] = strconv.FormatBool(val)
		case nil:
		default:
			fields[key] = fmt.Sprint(val)
		}
	}
	return fields, nil
}
