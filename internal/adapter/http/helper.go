package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: what + " not found", Code: strings.ReplaceAll(what, " ", "_") + "_not_found"})
}
