package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyellow/askhr-go/internal/ctxutil"
	"github.com/garyellow/askhr-go/internal/hr"
)

// employeeKey is the gin context key holding the authenticated code.
const employeeKey = "employee_code"

// requestIDHeaders are checked in order for a caller-supplied request ID.
var requestIDHeaders = []string{"X-Request-Id", "X-Correlation-Id"}

// RequestID tags each request with an ID taken from the request headers or
// freshly generated, echoes it in X-Request-Id and stores it in the request
// context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		for _, h := range requestIDHeaders {
			if id = c.GetHeader(h); id != "" {
				break
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// authenticate checks the employee's Basic credentials against the
// credential store on every request.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		code, pin, ok := c.Request.BasicAuth()
		code = hr.NormalizeCode(code)
		if !ok || code == "" || pin == "" {
			h.unauthorized(c)
			return
		}

		valid, err := h.credentials.Authenticate(c.Request.Context(), code, pin)
		if err != nil {
			h.logger.WithError(err).
				WithRequestID(requestIDFromContext(c.Request.Context())).
				Error("Credential check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication unavailable"})
			return
		}
		if !valid {
			h.logger.WithField("employee_code", code).Warn("Invalid employee credentials")
			h.unauthorized(c)
			return
		}

		c.Set(employeeKey, code)
		c.Request = c.Request.WithContext(ctxutil.WithEmployeeCode(c.Request.Context(), code))
		c.Next()
	}
}

func (h *Handler) unauthorized(c *gin.Context) {
	if h.metrics != nil {
		h.metrics.RecordAuthFailure()
	}
	c.Header("WWW-Authenticate", `Basic realm="askhr", charset="UTF-8"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid employee code or PIN"})
}
