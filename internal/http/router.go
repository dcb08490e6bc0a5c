// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carefinder/internal/http/middleware"
)

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.GET("/facilities/nearby", s.facility.Nearby)
	api.POST("/facilities/rank", s.facility.Rank)
	api.GET("/distance", s.directions.Distance)
	api.GET("/directions", s.directions.Directions)

	return r
}
