package catalog

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/msoohome/storefront/internal/domain"
)

// Catalog serves the product list from an in-memory cache backed by the
// product repository. The store is loaded once; if it is empty the built-in
// seed is written through first. Admin mutations update the store and only
// then the cache, so the cache never gets ahead of durable state.
type Catalog struct {
	repo   domain.ProductRepository
	logger *log.Entry

	loadGroup singleflight.Group

	mu       sync.RWMutex
	loaded   bool
	products []domain.Product
}

func New(repo domain.ProductRepository, logger *log.Entry) *Catalog {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Catalog{repo: repo, logger: logger}
}

// LoadOrSeed primes the cache from the store, seeding the store first when
// it holds no products. Concurrent callers share a single load.
func (c *Catalog) LoadOrSeed(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	if c.loaded {
		products := cloneProducts(c.products)
		c.mu.RUnlock()
		return products, nil
	}
	c.mu.RUnlock()

	_, err, _ := c.loadGroup.Do("load", func() (interface{}, error) {
		return nil, c.loadOnce(ctx)
	})
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProducts(c.products), nil
}

func (c *Catalog) loadOnce(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	products, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		seeded, err := c.repo.InsertBatch(ctx, SeedProducts())
		if err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		c.logger.WithField("count", len(seeded)).Info("product store empty, seeded built-in catalog")
		products = seeded
	}

	c.mu.Lock()
	c.products = products
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Products returns the cached catalog, loading it on first use.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	return c.LoadOrSeed(ctx)
}

// Product looks a single product up by id.
func (c *Catalog) Product(ctx context.Context, id string) (domain.Product, error) {
	products, err := c.LoadOrSeed(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// AddProduct validates and persists a new product, then appends it to the
// cache. The store write happens first; a failed write leaves the cache
// untouched.
func (c *Catalog) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if _, err := c.LoadOrSeed(ctx); err != nil {
		return domain.Product{}, err
	}

	created, err := c.repo.Insert(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	c.mu.Lock()
	c.products = append(c.products, created)
	c.mu.Unlock()
	return created, nil
}

// UpdateProduct validates and persists a changed product, then replaces it
// in the cache.
func (c *Catalog) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if _, err := c.LoadOrSeed(ctx); err != nil {
		return domain.Product{}, err
	}

	if err := c.repo.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}

	c.mu.Lock()
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			break
		}
	}
	c.mu.Unlock()
	return p, nil
}

// DeleteProduct removes a product from the store, then from the cache.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	if _, err := c.LoadOrSeed(ctx); err != nil {
		return err
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.products {
		if c.products[i].ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
