package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers its routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wraps the gin engine and mounts registrars under /api/v1
type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
}

// New creates a router around a pre-configured gin engine
func New(engine *gin.Engine) *Router {
	return &Router{
		engine: engine,
		api:    engine.Group("/api/v1"),
	}
}

// Register mounts one or more registrars on the API group
func (r *Router) Register(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.api)
	}
}

// RegisterRoot mounts registrars outside the versioned API prefix,
// used for operational endpoints like /health.
func (r *Router) RegisterRoot(registrars ...RouteRegistrar) {
	root := r.engine.Group("")
	for _, registrar := range registrars {
		registrar.RegisterRoutes(root)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
