package routes

import (
	"github.com/gin-gonic/gin"

	"ydadvisory/internal/authz"
	"ydadvisory/internal/handlers"
	"ydadvisory/internal/middleware"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Services   *handlers.ServiceHandler
	Team       *handlers.TeamHandler
	Blog       *handlers.BlogHandler
	Portfolio  *handlers.PortfolioHandler
	Newsletter *handlers.NewsletterHandler
	Contact    *handlers.ContactHandler
	Wizard     *handlers.WizardHandler
}

// SetupRoutes registers the public site API under /api and the back office
// under /api/admin. Public reads of content only ever see visible entries;
// the same handlers behind /api/admin see everything.
func SetupRoutes(r *gin.Engine, h Handlers, jwtSecret []byte) *gin.Engine {
	api := r.Group("/api")

	// ---- public
	api.POST("/auth/login", h.Auth.Login)

	api.GET("/services", h.Services.List)
	api.GET("/services/:id", h.Services.GetByID)
	api.GET("/services/slug/:slug", h.Services.GetBySlug)

	api.GET("/team", h.Team.List)
	api.GET("/team/:id", h.Team.GetByID)

	api.GET("/blog", h.Blog.List)
	api.GET("/blog/:id", h.Blog.GetByID)
	api.GET("/blog/slug/:slug", h.Blog.GetBySlug)

	api.GET("/portfolio", h.Portfolio.List)
	api.GET("/portfolio/:id", h.Portfolio.GetByID)

	api.POST("/newsletter/subscribe", h.Newsletter.Subscribe)
	api.GET("/newsletter/unsubscribe", h.Newsletter.Unsubscribe)
	api.POST("/newsletter/unsubscribe", h.Newsletter.Unsubscribe)

	api.POST("/contact", h.Contact.Submit)

	wizard := api.Group("/wizard")
	{
		wizard.GET("", h.Wizard.State)
		wizard.GET("/options", h.Wizard.Options)
		wizard.PATCH("/answers", h.Wizard.SetAnswers)
		wizard.POST("/next", h.Wizard.Next)
		wizard.POST("/previous", h.Wizard.Previous)
		wizard.POST("/report", h.Wizard.Report)
		wizard.POST("/rating", h.Wizard.Rating)
		wizard.POST("/reset", h.Wizard.Reset)
		wizard.GET("/report.pdf", h.Wizard.ReportPDF)
	}

	// ---- protected
	admin := api.Group("/admin", middleware.Auth(jwtSecret), middleware.ReadOnlyGuard())
	admin.GET("/me", h.Auth.Me)

	editors := middleware.RequireRoles(authz.RoleEditor, authz.RoleAdmin)
	admins := middleware.RequireRoles(authz.RoleAdmin)

	services := admin.Group("/services")
	{
		services.GET("", h.Services.List)
		services.GET("/:id", h.Services.GetByID)
		services.POST("", editors, h.Services.Create)
		services.PUT("/:id", editors, h.Services.Update)
		services.DELETE("/:id", admins, h.Services.Delete)
	}

	team := admin.Group("/team")
	{
		team.GET("", h.Team.List)
		team.GET("/:id", h.Team.GetByID)
		team.POST("", editors, h.Team.Create)
		team.PUT("/:id", editors, h.Team.Update)
		team.DELETE("/:id", admins, h.Team.Delete)
	}

	blog := admin.Group("/blog")
	{
		blog.GET("", h.Blog.List)
		blog.GET("/:id", h.Blog.GetByID)
		blog.GET("/slug/:slug", h.Blog.GetBySlug)
		blog.POST("", editors, h.Blog.Create)
		blog.PUT("/:id", editors, h.Blog.Update)
		blog.DELETE("/:id", admins, h.Blog.Delete)
	}

	portfolio := admin.Group("/portfolio")
	{
		portfolio.GET("", h.Portfolio.List)
		portfolio.GET("/:id", h.Portfolio.GetByID)
		portfolio.POST("", editors, h.Portfolio.Create)
		portfolio.PUT("/:id", editors, h.Portfolio.Update)
		portfolio.DELETE("/:id", admins, h.Portfolio.Delete)
	}

	contacts := admin.Group("/contacts")
	{
		contacts.GET("", h.Contact.List)
		contacts.GET("/:id", h.Contact.GetByID)
		contacts.PATCH("/:id/status", editors, h.Contact.UpdateStatus)
		contacts.DELETE("/:id", admins, h.Contact.Delete)
	}

	newsletter := admin.Group("/newsletter")
	{
		newsletter.GET("", h.Newsletter.List)
		newsletter.DELETE("/:id", admins, h.Newsletter.Delete)
	}

	return r
}
