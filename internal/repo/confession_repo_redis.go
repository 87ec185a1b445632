package repo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

const redisPrefix = "confessit:"

// Like: -1 missing confession, -2 voter already present, else new count.
var likeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
if redis.call('SADD', KEYS[2], ARGV[1]) == 0 then return -2 end
return redis.call('HINCRBY', KEYS[1], 'likes', 1)
`)

var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then return 0 end
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'sender', ARGV[2], 'recipient', ARGV[3], 'message', ARGV[4], 'likes', 0, 'created_at', ARGV[5])
redis.call('ZADD', KEYS[2], ARGV[6], ARGV[1])
return 1
`)

var deleteScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then return 0 end
redis.call('DEL', KEYS[2])
redis.call('ZREM', KEYS[3], ARGV[1])
return 1
`)

// RedisConfessionRepo stores each confession as a hash, its voter set as a
// set and keeps a creation-time index in a sorted set. Reads of the hash and
// the set go through MULTI/EXEC so likes always equals the voter count.
type RedisConfessionRepo struct {
	rdb redis.UniversalClient
	now func() time.Time
}

func NewRedisConfessionRepo(rdb redis.UniversalClient) *RedisConfessionRepo {
	return &RedisConfessionRepo{rdb: rdb, now: time.Now}
}

func confessionKey(id string) string { return redisPrefix + "confession:" + id }
func votersKey(id string) string     { return redisPrefix + "confession:" + id + ":likers" }
func indexKey() string               { return redisPrefix + "confessions" }

func (r *RedisConfessionRepo) Create(ctx context.Context, c *domain.Confession) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	c.Likes = 0
	c.LikedBy = []string{}

	n, err := createScript.Run(ctx, r.rdb, []string{confessionKey(c.ID), indexKey()},
		c.ID, c.SenderID, c.Recipient, c.Message,
		c.CreatedAt.UTC().Format(time.RFC3339Nano), c.CreatedAt.UnixMilli(),
	).Int64()
	if err != nil {
		return dbErr("create confession", err)
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *RedisConfessionRepo) FindByID(ctx context.Context, id string) (*domain.Confession, error) {
	var fields *redis.MapStringStringCmd
	var voters *redis.StringSliceCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		fields = p.HGetAll(ctx, confessionKey(id))
		voters = p.SMembers(ctx, votersKey(id))
		return nil
	})
	if err != nil {
		return nil, dbErr("find confession", err)
	}
	c, ok, err := decodeConfession(fields.Val(), voters.Val())
	if err != nil {
		return nil, dbErr("decode confession", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *RedisConfessionRepo) List(ctx context.Context) ([]domain.Confession, error) {
	ids, err := r.rdb.ZRevRange(ctx, indexKey(), 0, -1).Result()
	if err != nil {
		return nil, dbErr("list confessions", err)
	}
	if len(ids) == 0 {
		return []domain.Confession{}, nil
	}
	fields := make([]*redis.MapStringStringCmd, len(ids))
	voters := make([]*redis.StringSliceCmd, len(ids))
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			fields[i] = p.HGetAll(ctx, confessionKey(id))
			voters[i] = p.SMembers(ctx, votersKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, dbErr("list confessions", err)
	}
	out := make([]domain.Confession, 0, len(ids))
	for i := range ids {
		c, ok, err := decodeConfession(fields[i].Val(), voters[i].Val())
		if err != nil {
			return nil, dbErr("decode confession", err)
		}
		if ok {
			out = append(out, c)
		}
	}
	domain.SortNewest(out)
	return out, nil
}

func (r *RedisConfessionRepo) Like(ctx context.Context, id, actor string) (*domain.Confession, error) {
	n, err := likeScript.Run(ctx, r.rdb, []string{confessionKey(id), votersKey(id)}, actor).Int64()
	if err != nil {
		return nil, dbErr("like confession", err)
	}
	switch n {
	case -1:
		return nil, domain.ErrNotFound
	case -2:
		return nil, domain.ErrAlreadyLiked
	}
	return r.FindByID(ctx, id)
}

func (r *RedisConfessionRepo) Delete(ctx context.Context, id string) error {
	n, err := deleteScript.Run(ctx, r.rdb, []string{confessionKey(id), votersKey(id), indexKey()}, id).Int64()
	if err != nil {
		return dbErr("delete confession", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func decodeConfession(f map[string]string, voters []string) (domain.Confession, bool, error) {
	if len(f) == 0 || f["id"] == "" {
		return domain.Confession{}, false, nil
	}
	likes, err := strconv.Atoi(f["likes"])
	if err != nil {
		return domain.Confession{}, false, errors.New("bad likes field")
	}
	created, err := time.Parse(time.RFC3339Nano, f["created_at"])
	if err != nil {
		return domain.Confession{}, false, errors.New("bad created_at field")
	}
	if voters == nil {
		voters = []string{}
	}
	return domain.Confession{
		ID:        f["id"],
		SenderID:  f["sender"],
		Recipient: f["recipient"],
		Message:   f["message"],
		Likes:     likes,
		LikedBy:   voters,
		CreatedAt: created,
	}, true, nil
}
