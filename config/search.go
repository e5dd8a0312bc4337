package config

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewSearchClient builds the Elasticsearch client backing city search and
// review storage.
func NewSearchClient(cfg Config) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create Elasticsearch client: %w", err)
	}
	return es, nil
}
