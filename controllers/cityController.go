package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/models"
	"github.com/shariquenadim/Jio-EVA-auth/services"
)

// CityDirectory is the slice of the city service the controller consumes.
type CityDirectory interface {
	SearchCities(q string) ([]models.City, error)
	CityDetails(name string) (*models.City, error)
	SubmitReview(review models.Review) error
	CityReviewStats(city string) (*models.CityReviewStats, error)
}

// CityController serves city search, details and reviews.
type CityController struct {
	Cities CityDirectory
}

func NewCityController(cities CityDirectory) *CityController {
	return &CityController{Cities: cities}
}

// SearchCitiesHandler runs the full-text query from ?q=.
func (cc *CityController) SearchCitiesHandler(ctx *gin.Context) {
	q := ctx.Query("q")
	if q == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter."})
		return
	}

	results, err := cc.Cities.SearchCities(q)
	if err != nil {
		log.Printf("City search failed for %q: %v", q, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while searching for cities."})
		return
	}

	ctx.JSON(http.StatusOK, results)
}

// CityDetailsHandler serves one city by ?city= name.
func (cc *CityController) CityDetailsHandler(ctx *gin.Context) {
	city := ctx.Query("city")
	if city == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing city parameter."})
		return
	}

	details, err := cc.Cities.CityDetails(city)
	if err != nil {
		if errors.Is(err, services.ErrCityNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "City details not found."})
			return
		}
		log.Printf("City details failed for %q: %v", city, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching city details."})
		return
	}

	ctx.JSON(http.StatusOK, details)
}

// SubmitReviewHandler upserts one user's rating of a city.
func (cc *CityController) SubmitReviewHandler(ctx *gin.Context) {
	var review models.Review
	if err := ctx.ShouldBindJSON(&review); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters."})
		return
	}
	if review.UserID == "" || review.CityID == "" || review.Rating == 0 || review.CityName == "" || review.Reviews == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters."})
		return
	}

	if err := cc.Cities.SubmitReview(review); err != nil {
		log.Printf("Review submit failed for %s/%s: %v", review.UserID, review.CityID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while submitting the review."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Review submitted successfully."})
}

// CityReviewsHandler returns the aggregate rating stats for one city.
func (cc *CityController) CityReviewsHandler(ctx *gin.Context) {
	city := ctx.Query("city")
	if city == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing city parameter."})
		return
	}

	stats, err := cc.Cities.CityReviewStats(city)
	if err != nil {
		log.Printf("Review stats failed for %q: %v", city, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching city reviews."})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
