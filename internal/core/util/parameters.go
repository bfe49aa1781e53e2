package util

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParamsToMap binds the JSON body into T. A missing or empty body binds to
// the zero value of T, the same as an empty object.
func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return params, nil
	}

	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		return params, err
	}

	return params, nil
}

// ParseID reads the leading integer of a path segment: optional surrounding
// whitespace and sign, then digits ("12abc" is 12). Anything else yields 0,
// which never matches a stored id.
func ParseID(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digitsStart {
		return 0
	}

	id, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	return id
}
