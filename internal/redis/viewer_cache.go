package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/gomodule/redigo/redis"
)

const (
	viewerKeyPrefix = "viewer:"
	viewerGenPrefix = "viewer_gen:"
)

// ViewerCache keeps resolved viewer contexts so a feed load does not hit
// the friendships and groups tables on every request.
//
// Every user has a generation counter that Invalidate bumps. A context is
// only stored if the generation it was loaded under is still current, so a
// load racing an invalidation never caches what it read before the change.
// Generation keys carry no TTL.
type ViewerCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewViewerCache(pool *redis.Pool, ttl time.Duration) *ViewerCache {
	return &ViewerCache{pool: pool, ttl: ttl}
}

type viewerEntry struct {
	FriendIDs []int64 `json:"friend_ids"`
	GroupIDs  []int64 `json:"group_ids"`
}

func viewerKey(id int64) string {
	return fmt.Sprintf("%s%d", viewerKeyPrefix, id)
}

func viewerGenKey(id int64) string {
	return fmt.Sprintf("%s%d", viewerGenPrefix, id)
}

// Generation returns the current generation of id's cached context. Read it
// before loading the context that is passed to Set.
func (c *ViewerCache) Generation(ctx context.Context, id int64) (int64, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get redis conn: %w", err)
	}
	defer conn.Close()

	gen, err := redis.Int64(conn.Do("GET", viewerGenKey(id)))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, nil
		}
		return 0, fmt.Errorf("GET: %w", err)
	}

	return gen, nil
}

// Get returns model.ErrNoRecord on a cache miss.
func (c *ViewerCache) Get(ctx context.Context, id int64) (*model.Viewer, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get redis conn: %w", err)
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", viewerKey(id)))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("GET: %w", err)
	}

	entry := &viewerEntry{}
	if err := json.Unmarshal(data, entry); err != nil {
		return nil, fmt.Errorf("decode viewer: %w", err)
	}

	return model.NewViewer(id, entry.FriendIDs, entry.GroupIDs), nil
}

// Set stores v unless id's generation moved past gen. A skipped write is not
// an error.
func (c *ViewerCache) Set(ctx context.Context, v *model.Viewer, gen int64) error {
	entry := viewerEntry{
		FriendIDs: setToSlice(v.FriendIDs),
		GroupIDs:  setToSlice(v.GroupIDs),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode viewer: %w", err)
	}

	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get redis conn: %w", err)
	}
	defer conn.Close()

	genKey := viewerGenKey(v.ID)
	if _, err := conn.Do("WATCH", genKey); err != nil {
		return fmt.Errorf("WATCH: %w", err)
	}

	current, err := redis.Int64(conn.Do("GET", genKey))
	if err != nil && !errors.Is(err, redis.ErrNil) {
		conn.Do("UNWATCH")
		return fmt.Errorf("GET: %w", err)
	}
	if current != gen {
		_, err := conn.Do("UNWATCH")
		return err
	}

	if err := conn.Send("MULTI"); err != nil {
		return fmt.Errorf("MULTI: %w", err)
	}
	if err := conn.Send("SET", viewerKey(v.ID), data, "PX", c.ttl.Milliseconds()); err != nil {
		return fmt.Errorf("SET: %w", err)
	}

	// A nil reply means the generation changed after WATCH and nothing was written.
	if _, err := conn.Do("EXEC"); err != nil {
		return fmt.Errorf("EXEC: %w", err)
	}

	return nil
}

func (c *ViewerCache) Invalidate(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get redis conn: %w", err)
	}
	defer conn.Close()

	keys := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = viewerKey(id)
		if err := conn.Send("INCR", viewerGenKey(id)); err != nil {
			return fmt.Errorf("INCR: %w", err)
		}
	}

	if err := conn.Send("DEL", keys...); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	if _, err := conn.Do(""); err != nil {
		return fmt.Errorf("flush invalidation: %w", err)
	}

	return nil
}

func setToSlice(set map[int64]struct{}) []int64 {
	res := make([]int64, 0, len(set))
	for id := range set {
		res = append(res, id)
	}
	return res
}
