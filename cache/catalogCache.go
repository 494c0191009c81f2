package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
)

const listingTTL = 5 * time.Minute

// CatalogCache keeps serialized catalog listings in redis, one key per filter
// combination. Listing keys are dropped wholesale whenever the catalog mutates.
type CatalogCache struct {
	cli    *redis.Client
	tracer trace.Tracer
}

func NewCatalogCache(client *redis.Client, tracer trace.Tracer) domain.CatalogCache {
	return &CatalogCache{
		cli:    client,
		tracer: tracer,
	}
}

func (pc *CatalogCache) Ping() {
	val, _ := pc.cli.Ping().Result()
	log.Println(val)
}

func (pc *CatalogCache) PostListing(ctx context.Context, key string, cars []*domain.Car) error {
	ctx, span := pc.tracer.Start(ctx, "CatalogCache.PostListing")
	defer span.End()

	jsonValue, err := json.Marshal(cars)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = pc.cli.Set(constructKey(key), jsonValue, listingTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
		return err
	}

	return nil
}

func (pc *CatalogCache) GetListing(ctx context.Context, key string) ([]*domain.Car, error) {
	ctx, span := pc.tracer.Start(ctx, "CatalogCache.GetListing")
	defer span.End()

	jsonValue, err := pc.cli.Get(constructKey(key)).Result()
	if err != nil {
		return nil, err
	}

	var cars []*domain.Car
	err = json.Unmarshal([]byte(jsonValue), &cars)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
		return nil, err
	}

	return cars, nil
}

func (pc *CatalogCache) Invalidate(ctx context.Context) error {
	ctx, span := pc.tracer.Start(ctx, "CatalogCache.Invalidate")
	defer span.End()

	keys, err := pc.cli.Keys(constructKey("*")).Result()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	err = pc.cli.Del(keys...).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
	}
	return err
}

func constructKey(key string) string {
	return fmt.Sprintf("catalog:%s", key)
}
