package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Berserk-Vl/TaskManagement/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError serializes a core error as the "ERROR[code]: text." payload
// and answers with the status the error carries. Anything that is not a
// core error stays internal and maps to 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var coreErr *service.Error
	if errors.As(err, &coreErr) {
		c.JSON(coreErr.Code, gin.H{"error message": coreErr.Wire()})
		return
	}
	s.logger.Error("request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error message": "ERROR[500]: Unpredicted error."})
}
