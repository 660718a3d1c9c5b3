// Package cache holds the redis-backed product listing cache. The cache is
// strictly optional: the catalog works identically without it.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront/internal/catalog"
)

const (
	listKey = "catalog:products"
	listTTL = 5 * time.Minute
)

// ProductCache implements catalog.ListCache on redis. Failures degrade to a
// cache miss; redis being down never fails a read.
type ProductCache struct {
	client *redis.Client
}

// Connect parses a redis URL and pings the server.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func (c *ProductCache) GetList(ctx context.Context) ([]catalog.Product, bool) {
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Cache] Error reading product listing: %v", err)
		}
		return nil, false
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.Printf("[Cache] Corrupt product listing entry, dropping: %v", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, products []catalog.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		log.Printf("[Cache] Error encoding product listing: %v", err)
		return
	}
	if err := c.client.Set(ctx, listKey, data, listTTL).Err(); err != nil {
		log.Printf("[Cache] Error writing product listing: %v", err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listKey).Err(); err != nil {
		log.Printf("[Cache] Error invalidating product listing: %v", err)
	}
}
