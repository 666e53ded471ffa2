// Package httpapi exposes the analysis service over HTTP with gin.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/bastiangx/wordseg/pkg/server"
	"github.com/gin-gonic/gin"
)

// APIError is the body of every failed request.
type APIError struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// API holds the service the handlers call.
type API struct {
	service *server.Service
}

// NewRouter creates a gin engine with the middleware and routes installed.
func NewRouter(service *server.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware())
	SetupRoutes(router, service)
	return router
}

// SetupRoutes defines the API routes.
func SetupRoutes(router *gin.Engine, service *server.Service) {
	api := &API{service: service}

	router.GET("/health", api.HealthHandler)
	router.GET("/match", api.MatchHandler)
	router.GET("/analyze", api.AnalyzeHandler)
	router.GET("/expand", api.ExpandHandler)
	router.GET("/stats", api.StatsHandler)
}

func sendError(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{
		Error:     message,
		Code:      status,
		RequestID: c.GetString("request_id"),
	})
}

// intQuery reads an optional integer query parameter.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		sendError(c, http.StatusBadRequest, "invalid "+name+": "+raw)
		return 0, false
	}
	return v, true
}

// HealthHandler reports the server is up.
func (api *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, server.StatusResponse{Status: "ok"})
}

// MatchHandler handles GET /match?text=&begin=&length=
func (api *API) MatchHandler(c *gin.Context) {
	begin, ok := intQuery(c, "begin")
	if !ok {
		return
	}
	length, ok := intQuery(c, "length")
	if !ok {
		return
	}
	resp, err := api.service.Match(c.Query("text"), begin, length)
	if err != nil {
		sendError(c, server.StatusCode(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeHandler handles GET /analyze?q=&field=
func (api *API) AnalyzeHandler(c *gin.Context) {
	resp, err := api.service.Analyze(c.Query("field"), c.Query("q"))
	if err != nil {
		sendError(c, server.StatusCode(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpandHandler handles GET /expand?prefix=&limit=
func (api *API) ExpandHandler(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.service.Expand(c.Query("prefix"), limit))
}

// StatsHandler handles GET /stats
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.service.Stats())
}
