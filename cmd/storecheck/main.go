// storecheck smoke-tests a product backend: it pulls the catalog, fetches
// every detail bundle, and flags anything the page could not render.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/jaolave/ml-challenge-frontend/internal/backend"
	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/config"
	"github.com/jaolave/ml-challenge-frontend/internal/pricing"
)

func main() {
	var productID int

	flag.IntVar(&productID, "product", 0, "Product ID to check (default: whole catalog)")
	flag.IntVar(&productID, "p", 0, "Product ID to check (short)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	client, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("failed to create catalog client: %v", err)
	}

	ids, err := resolveProductIDs(ctx, client, productID)
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}

	broken, err := checkProducts(ctx, client, ids)
	if err != nil {
		log.Fatalf("catalog check failed: %v", err)
	}

	if len(broken) > 0 {
		fmt.Printf("broken products: %s\n", joinIDs(broken))
		os.Exit(1)
	}

	fmt.Printf("all %d products healthy\n", len(ids))
}

func resolveProductIDs(ctx context.Context, client backend.Catalog, productID int) ([]int, error) {
	if productID != 0 {
		return []int{productID}, nil
	}

	summaries, err := client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("backend returned an empty catalog")
	}

	ids := make([]int, 0, len(summaries))
	for _, summary := range summaries {
		ids = append(ids, summary.ID)
	}
	return ids, nil
}

func checkProducts(ctx context.Context, client backend.Catalog, ids []int) ([]int, error) {
	broken := make([]int, 0)
	for _, id := range ids {
		bundle, err := client.FetchBundle(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch product %d: %w", id, err)
		}

		problems := checkBundle(bundle)
		if len(problems) == 0 {
			fmt.Printf("✅ %d %s -> %s\n", id, bundle.Product.Title, describeBundle(bundle))
			continue
		}
		fmt.Printf("❌ %d %s -> %s\n", id, bundle.Product.Title, strings.Join(problems, "; "))
		broken = append(broken, id)
	}

	slices.Sort(broken)
	return broken, nil
}

// checkBundle reports everything that would break the page: a variant the
// resolver cannot select, a price the offer calculator cannot display, or a
// gallery reference past the end.
func checkBundle(bundle *catalog.Bundle) []string {
	problems := make([]string, 0)

	if strings.TrimSpace(bundle.Product.Title) == "" {
		problems = append(problems, "empty title")
	}
	if len(bundle.Offer.Variants) == 0 {
		problems = append(problems, "no variants")
	}

	for _, variant := range bundle.Offer.Variants {
		if len(pricing.Codes(variant.Pricing)) == 0 {
			problems = append(problems, fmt.Sprintf("variant %d has no pricing", variant.ID))
		}
		if variant.ImageIndex < 0 || variant.ImageIndex >= len(bundle.Product.Images) {
			problems = append(problems, fmt.Sprintf("variant %d image index %d out of range", variant.ID, variant.ImageIndex))
		}
		for _, axis := range bundle.Offer.Axes {
			if strings.TrimSpace(variant.Attributes[axis.Key]) == "" {
				problems = append(problems, fmt.Sprintf("variant %d missing %s", variant.ID, axis.Key))
			}
		}
	}

	return problems
}

func describeBundle(bundle *catalog.Bundle) string {
	stock := 0
	currencies := make(map[string]struct{})
	for _, variant := range bundle.Offer.Variants {
		stock += variant.Stock
		for _, code := range pricing.Codes(variant.Pricing) {
			currencies[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	return fmt.Sprintf("%d variants, %d units, priced in %s",
		len(bundle.Offer.Variants), stock, strings.Join(codes, ", "))
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}
