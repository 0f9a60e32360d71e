package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
)

// ElasticSink indexes audit events so they can be searched from the ops
// tooling. One document per event, keyed by the event id.
type ElasticSink struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticSink(addresses []string, username, password, index string) (*ElasticSink, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("audit: elasticsearch client: %w", err)
	}
	return &ElasticSink{client: client, index: index}, nil
}

func (s *ElasticSink) Deliver(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(data),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(e.ID),
	)
	if err != nil {
		return fmt.Errorf("audit: index event: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("audit: elasticsearch responded %s", res.Status())
	}
	return nil
}

func (s *ElasticSink) Close() error { return nil }
