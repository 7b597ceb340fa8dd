package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	xhttp "GannForce/pkg/http"
)

// FileSentimentSource reads the scraper's JSON output on every call, so a
// rewritten file is picked up without a restart.
type FileSentimentSource struct {
	path string
}

func NewFileSentimentSource(path string) *FileSentimentSource {
	return &FileSentimentSource{path: path}
}

func (s *FileSentimentSource) Latest(ctx context.Context) (*models.SentimentDataset, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domrepo.ErrNoScan
	}
	if err != nil {
		return nil, fmt.Errorf("read sentiment file: %w", err)
	}
	var ds models.SentimentDataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("decode sentiment file %s: %w", s.path, err)
	}
	return &ds, nil
}

// HTTPSentimentSource fetches the scraper's JSON from a URL.
type HTTPSentimentSource struct {
	url    string
	client *xhttp.Client
}

func NewHTTPSentimentSource(url string, client *xhttp.Client) *HTTPSentimentSource {
	return &HTTPSentimentSource{url: url, client: client}
}

func (s *HTTPSentimentSource) Latest(ctx context.Context) (*models.SentimentDataset, error) {
	var ds models.SentimentDataset
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     s.url,
		Headers: map[string]string{"Accept": "application/json"},
	}, &ds)
	var se *xhttp.StatusError
	if errors.As(err, &se) && se.Code == 404 {
		return nil, domrepo.ErrNoScan
	}
	if err != nil {
		return nil, fmt.Errorf("fetch sentiment: %w", err)
	}
	return &ds, nil
}
