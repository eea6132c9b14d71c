package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"project-management-api/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform body of every HTTP response
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
	Count   *int              `json:"count,omitempty"`
}

func respondOK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func respondList[T any](c *gin.Context, items []T) {
	n := len(items)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: items, Count: &n})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// respondError maps an error kind to its status code and envelope shape
func (h *Handlers) respondError(c *gin.Context, err error) {
	if ve, isValidation := apperr.IsValidation(err); isValidation {
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: "Validation failed.", Errors: ve.Fields})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrMalformedRequest):
		respondFail(c, http.StatusBadRequest, apperr.ErrMalformedRequest.Error())
	default:
		h.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		respondFail(c, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody reads a body holding exactly one JSON object. Numbers are kept
// as json.Number so id fields can be coerced without float rounding.
func decodeBody(c *gin.Context) (map[string]any, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, apperr.ErrMalformedRequest
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil || data == nil {
		return nil, apperr.ErrMalformedRequest
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperr.ErrMalformedRequest
	}
	return data, nil
}

// pathID parses an integer path parameter; ok is false when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional integer query parameter
func queryID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Invalid(name, "Must be a valid integer.")
	}
	v := uint(id)
	return &v, nil
}
