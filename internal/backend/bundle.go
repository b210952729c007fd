package backend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

// Catalog is the data source the page pulls from, either the real backend or
// the built-in mock.
type Catalog interface {
	ListProducts(ctx context.Context) ([]catalog.Summary, error)
	FetchBundle(ctx context.Context, id int) (*catalog.Bundle, error)
	Ready(ctx context.Context) error
}

// New returns the mock catalog when mocks are enabled, otherwise a real
// client against the configured backend.
func New(cfg *config.Config) (Catalog, error) {
	if cfg.Mocks.Enable {
		return NewMock(), nil
	}
	return NewClient(cfg.Backend)
}

// FetchBundle pulls the six detail payloads for one product concurrently.
// The bundle is all-or-nothing: the first failure cancels the remaining
// requests and the whole fetch reports that error.
func (c *Client) FetchBundle(ctx context.Context, id int) (*catalog.Bundle, error) {
	var bundle catalog.Bundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		bundle.Product, err = c.GetProduct(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Offer, err = c.GetOffer(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Questions, err = c.GetQuestions(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Reviews, err = c.GetReviews(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.PaymentMethods, err = c.GetPaymentMethods(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Seller, err = c.GetSeller(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Ready probes the backend with a list request, so the pod only reports
// ready once the product service answers.
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.ListProducts(ctx)
	return err
}
