package pkg

import (
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// IsJSONRequest reports whether the request body is declared as JSON.
func IsJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == ContentType.JSON
}

// IsMultipartRequest reports whether the request carries multipart form data (file uploads).
func IsMultipartRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// FormInt parses an integer form value. An empty value yields 0 and leaves vErr untouched.
func FormInt(values url.Values, field string, vErr *ValidationError) int {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		vErr.Add(field, "enter a whole number")
		return 0
	}
	return v
}

// FormFloat parses a decimal form value, accepting a comma as the decimal separator.
func FormFloat(values url.Values, field string, vErr *ValidationError) float64 {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		vErr.Add(field, "enter a number")
		return 0
	}
	return v
}
