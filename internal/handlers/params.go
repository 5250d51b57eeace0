package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/middleware"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

// pageFromQuery reads page and limit; bad values fall back to defaults in Page.Normalize
func pageFromQuery(c *gin.Context) models.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("limit"))
	return models.Page{Number: number, Size: size}
}

// idParam parses a path id. Malformed ids answer like a missing row.
func idParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, resource+" not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID query parameter; a malformed value is a validation failure
func optionalUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		ValidationErrorResponse(c, map[string]string{key: "must be a valid id"})
		return nil, false
	}
	return &id, true
}

func identity(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
	}
	return id, ok
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		ValidationErrorResponse(c, map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// nullableUUID distinguishes an absent key, an explicit null and a value
type nullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (n *nullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// nullableDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates
type nullableDate struct {
	Set   bool
	Value *time.Time
}

func (n *nullableDate) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		n.Value = nil
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			n.Value = &t
			return nil
		}
	}
	return &time.ParseError{Layout: "2006-01-02", Value: raw, Message: ": dueDate must be a date"}
}
