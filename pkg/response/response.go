package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

// Detail is the error body the dashboard clients expect: a single
// human-readable string under the "detail" key.
type Detail struct {
	Detail string `json:"detail"`
}

// JSON sends a success payload as-is. Collections are emitted as bare arrays,
// records as bare objects, matching the legacy backend the clients were
// written against.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error converts err into a {"detail": ...} body with the mapped status.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Detail{Detail: appErr.Message})
}
