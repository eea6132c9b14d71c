package routes

import (
	"strings"

	"project-management-api/internal/config"
	"project-management-api/internal/graph"
	"project-management-api/internal/handlers"
	"project-management-api/internal/logger"
	"project-management-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// router registers every path twice so clients may omit the trailing slash
type router struct {
	engine *gin.Engine
}

func (r router) handle(method, path string, h gin.HandlerFunc) {
	trimmed := strings.TrimSuffix(path, "/")
	r.engine.Handle(method, trimmed, h)
	r.engine.Handle(method, trimmed+"/", h)
}

func (r router) GET(path string, h gin.HandlerFunc)    { r.handle("GET", path, h) }
func (r router) POST(path string, h gin.HandlerFunc)   { r.handle("POST", path, h) }
func (r router) PUT(path string, h gin.HandlerFunc)    { r.handle("PUT", path, h) }
func (r router) PATCH(path string, h gin.HandlerFunc)  { r.handle("PATCH", path, h) }
func (r router) DELETE(path string, h gin.HandlerFunc) { r.handle("DELETE", path, h) }

func SetupRoutes(h *handlers.Handlers, gql *graph.Handler, cfg *config.Config, log *logger.Logger) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.RedirectTrailingSlash = false

	ginRouter.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r := router{engine: ginRouter}

	// Health check endpoint
	ginRouter.GET("/health", h.Health)

	// Change feeds
	ginRouter.GET("/ws/:topic", h.WebSocket)

	if gql != nil {
		r.GET("/graphql/", gql.Serve)
		r.POST("/graphql/", gql.Serve)
	}

	// Organization endpoints
	r.GET("/organizations/", h.ListOrganizations)
	r.POST("/organizations/", h.CreateOrganization)
	r.GET("/organizations/slug/:slug/", h.GetOrganizationBySlug)
	r.GET("/organizations/:id/", h.GetOrganization)
	r.PUT("/organizations/:id/", h.UpdateOrganization)
	r.PATCH("/organizations/:id/", h.UpdateOrganization)
	r.DELETE("/organizations/:id/", h.DeleteOrganization)
	r.GET("/organizations/:id/statistics/", h.OrganizationStatistics)

	// Project endpoints
	r.GET("/projects/", h.ListProjects)
	r.POST("/projects/", h.CreateProject)
	r.GET("/projects/organization/:org_id/", h.ListOrganizationProjects)
	r.GET("/projects/:id/", h.GetProject)
	r.PUT("/projects/:id/", h.ReplaceProject)
	r.PATCH("/projects/:id/", h.PatchProject)
	r.DELETE("/projects/:id/", h.DeleteProject)

	// Task endpoints
	r.GET("/tasks/", h.ListTasks)
	r.POST("/tasks/", h.CreateTask)
	r.GET("/tasks/project/:project_id/", h.ListProjectTasks)
	r.GET("/tasks/:id/", h.GetTaskByID)
	r.PUT("/tasks/:id/", h.ReplaceTask)
	r.PATCH("/tasks/:id/", h.PatchTask)
	r.DELETE("/tasks/:id/", h.DeleteTask)

	// Comment endpoints
	r.GET("/taskcomments/", h.ListTaskComments)
	r.POST("/taskcomments/", h.CreateTaskComment)
	r.GET("/taskcomments/task/:task_id/", h.ListCommentsOfTask)
	r.GET("/taskcomments/:id/", h.GetTaskComment)
	r.PUT("/taskcomments/:id/", h.ReplaceTaskComment)
	r.PATCH("/taskcomments/:id/", h.PatchTaskComment)
	r.DELETE("/taskcomments/:id/", h.DeleteTaskComment)

	return ginRouter
}
