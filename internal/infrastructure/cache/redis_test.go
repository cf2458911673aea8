package cache

import (
	"context"
	"testing"

	"skilla/internal/config"

	"github.com/google/uuid"
)

func TestRedis_DisabledIsPassThrough(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, nil)
	if r.Enabled() {
		t.Fatalf("expected cache disabled without host")
	}

	ctx := context.Background()
	if err := r.SetJSON(ctx, QuestionsKey, []string{"a"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out []string
	hit, err := r.GetJSON(ctx, QuestionsKey, &out)
	if err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := r.Delete(ctx, QuestionsKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Ping(ctx); err == nil {
		t.Fatalf("expected ping error when disabled")
	}
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	hit, err := r.GetJSON(context.Background(), "k", &struct{}{})
	if hit || err != nil {
		t.Fatalf("nil cache should miss silently")
	}
}

func TestPassportKey(t *testing.T) {
	id := uuid.New()
	k := PassportKey(id)
	if k != "passport:"+id.String() {
		t.Fatalf("unexpected key %s", k)
	}
}
