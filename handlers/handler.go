// handler.go - Shared plumbing for the HTTP handlers
//
// Every handler binds JSON into a service input, calls the service and turns
// the result into a response. Service errors carry a Kind that decides the
// status code; anything without one is an internal error.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"store-manager/events"
	"store-manager/logger"
	"store-manager/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler serves the store API.
type Handler struct {
	users    *service.Users
	products *service.Products
	sales    *service.Sales
	feed     *events.Hub
	upgrader websocket.Upgrader
	log      logger.Logger
}

// New builds a Handler. feed may be nil, in which case /sales/feed answers 503.
func New(users *service.Users, products *service.Products, sales *service.Sales, feed *events.Hub, log logger.Logger) *Handler {
	return &Handler{
		users:    users,
		products: products,
		sales:    sales,
		feed:     feed,
		log:      log.With("component", "http"),
	}
}

var statusByKind = map[service.Kind]int{
	service.KindValidation:     http.StatusBadRequest,
	service.KindAuthentication: http.StatusUnauthorized,
	service.KindAuthorization:  http.StatusForbidden,
	service.KindNotFound:       http.StatusNotFound,
	service.KindConflict:       http.StatusBadRequest,
}

// respondError writes err as {"error": message}.
func (h *Handler) respondError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		if status, ok := statusByKind[se.Kind]; ok {
			c.JSON(status, gin.H{"error": se.Message})
			return
		}
	}
	h.log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bind decodes the JSON body into dst and reports a readable 400 on failure.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, service.Validation(bindMessage(err)))
		return false
	}
	return true
}

func bindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}
	return "invalid request body"
}

// pathID parses the :id parameter. Anything that is not a positive integer
// cannot name a stored row, so it is reported as not found.
func pathID(c *gin.Context, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, service.NotFound(notFound)
	}
	return uint(id), nil
}
