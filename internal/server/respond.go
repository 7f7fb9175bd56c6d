package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-journal-go/internal/ingest"
)

// Error writes a uniform error envelope.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// ingestError maps the pipeline's error taxonomy onto a structured 422
// response, so the UI can render which rule failed and which rows are
// affected instead of a generic "import failed".
func ingestError(c *gin.Context, err error) {
	var schemaErr *ingest.SchemaError
	var parseErr *ingest.ParseError
	var validationErr *ingest.ValidationError

	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "schema",
			"message": schemaErr.Error(),
			"missing": schemaErr.Missing,
		})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "parse",
			"message": parseErr.Error(),
			"row":     parseErr.Row,
			"field":   parseErr.Field,
			"value":   parseErr.Value,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation",
			"message": validationErr.Error(),
			"rule":    validationErr.Rule,
			"rows":    validationErr.Rows,
		})
	default:
		Error(c, http.StatusBadRequest, err.Error())
	}
}
