// README: Shared handler utilities: error mapping and response envelopes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freshfold/internal/modules/driver"
	"freshfold/internal/modules/order"
	"freshfold/internal/modules/revenue"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writeOrderError maps the order module's sentinel errors onto HTTP statuses.
// Guard and conflict messages are surfaced verbatim so the console can show
// them to operators.
func writeOrderError(c *gin.Context, err error) {
	switch err {
	case order.ErrBadRequest, order.ErrInvalidStatus, order.ErrTotalMismatch:
		writeError(c, http.StatusBadRequest, err.Error())
	case order.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case order.ErrAlreadyTerminal, order.ErrDriverRequired, order.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeDriverError(c *gin.Context, err error) {
	switch err {
	case driver.ErrBadRequest, driver.ErrInvalidStatus, driver.ErrInvalidTripType:
		writeError(c, http.StatusBadRequest, err.Error())
	case driver.ErrNotFound, driver.ErrOrderNotFound, driver.ErrTripNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case driver.ErrTripCompleted:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeRevenueError(c *gin.Context, err error) {
	switch err {
	case revenue.ErrInvalidPeriod, revenue.ErrInvalidRange:
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
