package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riddlebox/riddle-api/internal/handlers"
	authmw "github.com/riddlebox/riddle-api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler   *handlers.AuthHandler
	PlayerHandler *handlers.PlayerHandler
	RiddleHandler *handlers.RiddleHandler
	SearchHandler *handlers.SearchHandler
	HealthHandler *handlers.HealthHandler
	AuthMW        *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", d.HealthHandler.Root)
	e.GET("/health", d.HealthHandler.Health)

	riddles := e.Group("/riddles")
	riddles.GET("", d.RiddleHandler.ListRiddles)
	riddles.GET("/search", d.SearchHandler.Search)

	riddlesAdmin := e.Group("/riddles",
		d.AuthMW.Authenticate(true), d.AuthMW.RequireRoles("admin"))
	riddlesAdmin.POST("", d.RiddleHandler.CreateRiddle)
	riddlesAdmin.PATCH("/:id", d.RiddleHandler.PatchRiddle)
	riddlesAdmin.DELETE("/:id", d.RiddleHandler.DeleteRiddle)

	players := e.Group("/players")
	players.GET("/leaderboard", d.PlayerHandler.Leaderboard)
	players.POST("", d.PlayerHandler.CreatePlayer)
	players.GET("", d.PlayerHandler.ListPlayers,
		d.AuthMW.Authenticate(true), d.AuthMW.RequireRoles("admin"))
	players.GET("/:username", d.PlayerHandler.GetPlayer,
		d.AuthMW.Authenticate(false))
	players.POST("/submit-score", d.PlayerHandler.SubmitScore,
		d.AuthMW.Authenticate(true), d.AuthMW.RequireRoles())

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Route not found"})
	})
}
