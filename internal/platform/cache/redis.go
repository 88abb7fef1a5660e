package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/platform/config"
	"time"

	"github.com/redis/go-redis/v9"
)

const previewsKey = "logic_exercises:exercise_previews"

var RDB *redis.Client

// ConnectRedis opens the shared client when REDIS_ADDR is set. An empty address
// leaves RDB nil and the server runs without a preview cache.
func ConnectRedis() {
	if config.AppConfig.RedisAddr == "" {
		log.Println("INFO: REDIS_ADDR not set, exercise preview cache disabled")
		return
	}
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Printf("WARN: Could not connect to Redis at %s, continuing without preview cache: %v", config.AppConfig.RedisAddr, err)
		RDB.Close()
		RDB = nil
		return
	}
	log.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		log.Println("Redis connection closed.")
	}
}

// PreviewCache holds the exercise listing between writes. It is advisory: every
// failure degrades to a miss and the store stays authoritative.
type PreviewCache interface {
	GetPreviews(ctx context.Context) ([]model.ExercisePreview, bool)
	SetPreviews(ctx context.Context, previews []model.ExercisePreview)
	Invalidate(ctx context.Context)
}

// NewPreviewCache returns a Redis-backed cache, or a no-op one when client is nil.
func NewPreviewCache(client *redis.Client, ttl time.Duration) PreviewCache {
	if client == nil {
		return NopPreviewCache{}
	}
	return &RedisPreviewCache{client: client, ttl: ttl}
}

type RedisPreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *RedisPreviewCache) GetPreviews(ctx context.Context) ([]model.ExercisePreview, bool) {
	raw, err := c.client.Get(ctx, previewsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: preview cache read failed: %v", err)
		}
		return nil, false
	}
	var previews []model.ExercisePreview
	if err := json.Unmarshal(raw, &previews); err != nil {
		log.Printf("WARN: preview cache holds undecodable entry, dropping it: %v", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return previews, true
}

func (c *RedisPreviewCache) SetPreviews(ctx context.Context, previews []model.ExercisePreview) {
	raw, err := json.Marshal(previews)
	if err != nil {
		log.Printf("WARN: preview cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, previewsKey, raw, c.ttl).Err(); err != nil {
		log.Printf("WARN: preview cache write failed: %v", err)
	}
}

func (c *RedisPreviewCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, previewsKey).Err(); err != nil {
		log.Printf("WARN: preview cache invalidation failed: %v", err)
	}
}

type NopPreviewCache struct{}

func (NopPreviewCache) GetPreviews(context.Context) ([]model.ExercisePreview, bool) { return nil, false }
func (NopPreviewCache) SetPreviews(context.Context, []model.ExercisePreview)         {}
func (NopPreviewCache) Invalidate(context.Context)                                   {}
