package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/controllers"
)

// SetupCityRoutes registers the city search and review endpoints.
func SetupCityRoutes(router *gin.Engine, city *controllers.CityController) {
	router.GET("/cities/search", city.SearchCitiesHandler)
	router.GET("/cities/details", city.CityDetailsHandler)
	router.GET("/cities/reviews", city.CityReviewsHandler)
	router.POST("/reviews", city.SubmitReviewHandler)
}
