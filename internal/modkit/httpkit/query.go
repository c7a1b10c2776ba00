package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perr "otnanalyzer/internal/platform/errors"
)

// query readers return def for a missing key and an invalid input error naming the key otherwise

// QueryString returns the trimmed value of key or def
func QueryString(r *http.Request, key, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	return def
}

// QueryInt parses key as a base 10 int
func QueryInt(r *http.Request, key string, def int) (int, error) {
	v := QueryString(r, key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, perr.InvalidInputf(key, "%s must be an integer", key)
	}
	return n, nil
}

// QueryUint64 parses key as an unsigned 64 bit int (seeds)
func QueryUint64(r *http.Request, key string, def uint64) (uint64, error) {
	v := QueryString(r, key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def, perr.InvalidInputf(key, "%s must be an unsigned integer", key)
	}
	return n, nil
}

// QueryFloat parses key as a float64
func QueryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := QueryString(r, key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, perr.InvalidInputf(key, "%s must be a number", key)
	}
	return f, nil
}

// QueryBool parses key with strconv.ParseBool
func QueryBool(r *http.Request, key string, def bool) (bool, error) {
	v := QueryString(r, key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, perr.InvalidInputf(key, "%s must be true or false", key)
	}
	return b, nil
}
