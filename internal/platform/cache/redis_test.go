package cache

import (
	"context"
	"logic_exercises/internal/domain/model"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewPreviewCacheWithoutClientIsNoop(t *testing.T) {
	c := NewPreviewCache(nil, time.Minute)
	if _, ok := c.(NopPreviewCache); !ok {
		t.Fatalf("NewPreviewCache(nil) = %T, want NopPreviewCache", c)
	}

	ctx := context.Background()
	c.SetPreviews(ctx, []model.ExercisePreview{{ID: 1, Title: "t"}})
	if _, ok := c.GetPreviews(ctx); ok {
		t.Fatal("no-op cache reported a hit")
	}
	c.Invalidate(ctx)
}

func TestRedisPreviewCacheDegradesToMissWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewPreviewCache(client, time.Minute)
	ctx := context.Background()
	c.SetPreviews(ctx, []model.ExercisePreview{{ID: 1, Title: "t"}})
	if previews, ok := c.GetPreviews(ctx); ok {
		t.Fatalf("unreachable cache reported a hit: %v", previews)
	}
	c.Invalidate(ctx)
}
