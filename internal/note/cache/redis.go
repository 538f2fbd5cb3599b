package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

const (
	keyPrefix        = "notes:note:"
	generationPrefix = "notes:gen:"
	generationTTL    = 24 * time.Hour
)

// Generation counts invalidations of one note. A fill carries the generation
// observed by the lookup that preceded the store read and is dropped when an
// invalidation happened in between.
type Generation int64

type Cache interface {
	Get(ctx context.Context, id domain.ID) (domain.Note, Generation, bool, error)
	Set(ctx context.Context, note domain.Note, gen Generation) (bool, error)
	Delete(ctx context.Context, id domain.ID) error
}

var fillScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if current == false then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type cachedNote struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	genTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = constants.DefaultNoteCacheTTL
	}
	genTTL := generationTTL
	if genTTL < 2*ttl {
		genTTL = 2 * ttl
	}
	return &RedisCache{client: client, ttl: ttl, genTTL: genTTL}
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func key(id domain.ID) string {
	return keyPrefix + strconv.FormatInt(int64(id), 10)
}

func generationKey(id domain.ID) string {
	return generationPrefix + strconv.FormatInt(int64(id), 10)
}

// Get reads the cached note and its generation in one MGET.
func (c *RedisCache) Get(ctx context.Context, id domain.ID) (domain.Note, Generation, bool, error) {
	values, err := c.client.MGet(ctx, key(id), generationKey(id)).Result()
	if err != nil {
		return domain.Note{}, 0, false, fmt.Errorf("get cached note: %w", err)
	}

	gen, err := parseGeneration(values[1])
	if err != nil {
		return domain.Note{}, 0, false, err
	}

	raw, ok := values[0].(string)
	if !ok {
		return domain.Note{}, gen, false, nil
	}

	var cn cachedNote
	if err := json.Unmarshal([]byte(raw), &cn); err != nil {
		return domain.Note{}, gen, false, fmt.Errorf("decode cached note: %w", err)
	}
	return domain.Note{
		ID:        domain.ID(cn.ID),
		Title:     cn.Title,
		Content:   cn.Content,
		CreatedAt: cn.CreatedAt,
		UpdatedAt: cn.UpdatedAt,
	}, gen, true, nil
}

func parseGeneration(v any) (Generation, error) {
	raw, ok := v.(string)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode cache generation %q: %w", raw, err)
	}
	return Generation(n), nil
}

// Set stores note only while its generation still equals gen. It reports
// whether the value was written.
func (c *RedisCache) Set(ctx context.Context, note domain.Note, gen Generation) (bool, error) {
	raw, err := json.Marshal(cachedNote{
		ID:        int64(note.ID),
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("encode note: %w", err)
	}

	stored, err := fillScript.Run(
		ctx,
		c.client,
		[]string{key(note.ID), generationKey(note.ID)},
		strconv.FormatInt(int64(gen), 10),
		raw,
		c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("set cached note: %w", err)
	}
	return stored == 1, nil
}

// Delete bumps the note generation and drops the cached value atomically, so
// fills that started before the call are rejected.
func (c *RedisCache) Delete(ctx context.Context, id domain.ID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), c.genTTL)
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete cached note: %w", err)
	}
	return nil
}
