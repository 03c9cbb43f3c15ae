package handler

import (
	"net/http"

	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// IsAlive godoc
// @Summary Check if alive
// @Description allows to check if the API is alive
// @Tags System
// @Success 200 "Status OK"
// @Router /isalive [get]
func IsAlive(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, r, map[string]interface{}{"alive": true})
}
