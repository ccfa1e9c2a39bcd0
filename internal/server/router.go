// Package server assembles the gin router.
package server

import (
	"github.com/gin-gonic/gin"

	apix "github.com/wavelaunch/creator-backend/internal/api"
)

// NewRouter mounts every route on a fresh gin engine.
func NewRouter(h *apix.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", h.Root)
	r.GET("/creators", h.ListCreators)
	r.POST("/creators", h.CreateCreator)
	r.PATCH("/creators/:id/status", h.UpdateCreatorStatus)
	r.POST("/creators/:id/activities", h.CreateActivity)
	r.POST("/creators/:id/call", h.Call)
	r.POST("/creators/:id/email", h.Email)
	r.POST("/creators/:id/calls/:call_id/analyze", h.AnalyzeCall)
	r.POST("/creators/:id/generate-contract", h.GenerateContract)

	return r
}
