package models

// City mirrors one document of the smart-cities search index.
type City struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	State      string  `json:"state"`
	Population int     `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Review is one user's rating of a city, upserted into the reviews index
// under the id "<userId>_<cityId>" so resubmitting replaces the old rating.
type Review struct {
	UserID   string  `json:"userId"`
	CityID   string  `json:"cityId"`
	Rating   float64 `json:"rating"`
	CityName string  `json:"cityName"`
	Reviews  string  `json:"reviews"`
}

// CityReviewStats aggregates the reviews index for one city.
type CityReviewStats struct {
	AvgRating   float64 `json:"avgRating"`
	UniqueUsers int64   `json:"uniqueUsers"`
}
