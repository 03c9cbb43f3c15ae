package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func QueryParamToOptionalInt(r *http.Request, name string, orDefault int) (int, error) {
	param := r.URL.Query().Get(name)
	if param != "" {
		return strconv.Atoi(param)
	}
	return orDefault, nil
}

func QueryParamToOptionalTime(r *http.Request, name string, orDefault time.Time) (time.Time, error) {
	param := r.URL.Query().Get(name)
	if param != "" {
		return time.Parse("2006-01-02T15:04:05.000Z07:00", param)
	}
	return orDefault, nil
}

func QueryParamToTime(r *http.Request, name string) (time.Time, error) {
	param := r.URL.Query().Get(name)
	if param != "" {
		return time.Parse("2006-01-02T15:04:05.000Z07:00", param)
	}
	return time.Time{}, fmt.Errorf("missing query parameter %s", name)
}
