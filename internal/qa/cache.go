package qa

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedQuestions is a read-through cache in front of a QuestionStore.
// Questions are never updated after creation, so cached entries cannot go
// stale; the TTL only bounds memory.
type CachedQuestions struct {
	QuestionStore
	c *cache.Cache
}

// NewCachedQuestions wraps s. A ttl <= 0 falls back to ten minutes.
func NewCachedQuestions(s QuestionStore, ttl time.Duration) *CachedQuestions {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedQuestions{
		QuestionStore: s,
		c:             cache.New(ttl, 2*ttl),
	}
}

func (cq *CachedQuestions) CreateQuestion(ctx context.Context, title, description string) (Question, error) {
	q, err := cq.QuestionStore.CreateQuestion(ctx, title, description)
	if err != nil {
		return Question{}, err
	}
	cq.c.SetDefault(cacheKey(q.ID), q)
	return q, nil
}

func (cq *CachedQuestions) GetQuestion(ctx context.Context, id int64) (Question, error) {
	if v, ok := cq.c.Get(cacheKey(id)); ok {
		return v.(Question), nil
	}
	q, err := cq.QuestionStore.GetQuestion(ctx, id)
	if err != nil {
		return Question{}, err
	}
	cq.c.SetDefault(cacheKey(id), q)
	return q, nil
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
