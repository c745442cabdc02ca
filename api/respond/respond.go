// Package respond writes JSON and CSV HTTP responses.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/pkg/export"
)

// JSON writes v with status 200.
func JSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CSV renders with write into a buffer and sends it as text/csv.
func CSV(w http.ResponseWriter, write func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.FormatCSV.ContentType())
	_, _ = w.Write(buf.Bytes())
}

// Error maps domain errors onto HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidVolume), errors.Is(err, model.ErrInvalidCapacity),
		errors.Is(err, model.ErrInvalidWindow):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

// Format reads the ?format= query parameter.
func Format(w http.ResponseWriter, r *http.Request) (export.Format, bool) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return f, true
}

// Int parses an optional integer query parameter, returning def when absent.
func Int(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}
