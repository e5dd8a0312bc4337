package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shariquenadim/Jio-EVA-auth/models"
)

//go:embed data/cities.json
var citiesData []byte

const (
	cityIndex   = "smart-cities"
	reviewIndex = "reviews"
)

// CityService answers city search and review requests against the search
// index. City details are served from the bundled dataset, not the index.
type CityService struct {
	ES     *elasticsearch.Client
	cities []models.City
}

func NewCityService(es *elasticsearch.Client) (*CityService, error) {
	var cities []models.City
	if err := json.Unmarshal(citiesData, &cities); err != nil {
		return nil, fmt.Errorf("parse bundled cities data: %w", err)
	}
	return &CityService{ES: es, cities: cities}, nil
}

// LoadCities creates the smart-cities index and bulk-loads the bundled
// dataset. If the index already exists the load is skipped.
func (cs *CityService) LoadCities() error {
	res, err := cs.ES.Indices.Exists([]string{cityIndex})
	if err != nil {
		return fmt.Errorf("check index %s: %w", cityIndex, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		log.Printf("Index %s already exists, skipping data loading", cityIndex)
		return nil
	}

	mapping := `{
	  "mappings": {
	    "properties": {
	      "name":       { "type": "text" },
	      "state":      { "type": "text" },
	      "population": { "type": "integer" },
	      "latitude":   { "type": "float" },
	      "longitude":  { "type": "float" }
	    }
	  }
	}`
	res, err = cs.ES.Indices.Create(cityIndex, cs.ES.Indices.Create.WithBody(strings.NewReader(mapping)))
	if err != nil {
		return fmt.Errorf("create index %s: %w", cityIndex, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", cityIndex, res.String())
	}

	var buf strings.Builder
	for _, city := range cs.cities {
		buf.WriteString(fmt.Sprintf(`{"index":{"_index":%q}}`, cityIndex))
		buf.WriteByte('\n')
		doc, err := json.Marshal(city)
		if err != nil {
			return err
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err = cs.ES.Bulk(strings.NewReader(buf.String()), cs.ES.Bulk.WithRefresh("true"))
	if err != nil {
		return fmt.Errorf("bulk load cities: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk load cities: %s", res.String())
	}

	log.Printf("Loaded %d cities into index %s", len(cs.cities), cityIndex)
	return nil
}

// SearchCities runs the full-text query: fuzzy multi_match over name and
// state, plus a lowercase prefix on name so partial typing still matches.
func (cs *CityService) SearchCities(q string) ([]models.City, error) {
	query := fmt.Sprintf(`{
	  "query": {
	    "bool": {
	      "should": [
	        { "multi_match": { "query": %q, "fields": ["name", "state"], "fuzziness": "AUTO" } },
	        { "prefix": { "name": { "value": %q } } }
	      ]
	    }
	  }
	}`, q, strings.ToLower(q))

	res, err := cs.ES.Search(
		cs.ES.Search.WithIndex(cityIndex),
		cs.ES.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return nil, fmt.Errorf("search cities: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search cities: %s", res.String())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				ID     string      `json:"_id"`
				Source models.City `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := decodeBody(res.Body, &envelope); err != nil {
		return nil, err
	}

	results := make([]models.City, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		city := hit.Source
		city.ID = hit.ID
		results = append(results, city)
	}
	return results, nil
}

// CityDetails serves one city from the bundled dataset, matched
// case-insensitively on name.
func (cs *CityService) CityDetails(name string) (*models.City, error) {
	for i := range cs.cities {
		if strings.EqualFold(cs.cities[i].Name, name) {
			city := cs.cities[i]
			return &city, nil
		}
	}
	return nil, ErrCityNotFound
}

// SubmitReview upserts the review under "<userId>_<cityId>", so one user
// holds at most one rating per city.
func (cs *CityService) SubmitReview(review models.Review) error {
	doc, err := json.Marshal(review)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`{"doc":%s,"doc_as_upsert":true}`, doc)
	id := fmt.Sprintf("%s_%s", review.UserID, review.CityID)

	res, err := cs.ES.Update(reviewIndex, id, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("submit review: %s", res.String())
	}
	return nil
}

// CityReviewStats aggregates the reviews index for one city: average
// rating plus the number of distinct reviewers.
func (cs *CityService) CityReviewStats(city string) (*models.CityReviewStats, error) {
	query := fmt.Sprintf(`{
	  "size": 0,
	  "query": { "match": { "cityName": %q } },
	  "aggs": {
	    "avg_rating":   { "avg": { "field": "rating" } },
	    "unique_users": { "cardinality": { "field": "userId.keyword" } }
	  }
	}`, city)

	res, err := cs.ES.Search(
		cs.ES.Search.WithIndex(reviewIndex),
		cs.ES.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		// An absent reviews index just means nobody has reviewed yet.
		if res.StatusCode == 404 {
			return &models.CityReviewStats{}, nil
		}
		return nil, fmt.Errorf("aggregate reviews: %s", res.String())
	}

	var envelope struct {
		Aggregations struct {
			AvgRating struct {
				Value *float64 `json:"value"`
			} `json:"avg_rating"`
			UniqueUsers struct {
				Value int64 `json:"value"`
			} `json:"unique_users"`
		} `json:"aggregations"`
	}
	if err := decodeBody(res.Body, &envelope); err != nil {
		return nil, err
	}

	stats := &models.CityReviewStats{UniqueUsers: envelope.Aggregations.UniqueUsers.Value}
	if envelope.Aggregations.AvgRating.Value != nil {
		stats.AvgRating = *envelope.Aggregations.AvgRating.Value
	}
	return stats, nil
}

func decodeBody(r io.Reader, v interface{}) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}
	return nil
}
