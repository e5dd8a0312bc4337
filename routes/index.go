package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/controllers"
	"github.com/shariquenadim/Jio-EVA-auth/middleware"
)

// SetupRouter registers every route group on the engine.
func SetupRouter(
	router *gin.Engine,
	auth *controllers.AuthController,
	email *controllers.EmailController,
	password *controllers.PasswordController,
	city *controllers.CityController,
	tokens middleware.TokenVerifier,
) {
	SetupAuthRoutes(router, auth, email, password, tokens)
	SetupCityRoutes(router, city)
}
