package domain

import (
	"context"
	"sort"
	"time"
)

// Confession keeps Likes == len(LikedBy).
type Confession struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender,omitempty"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ConfessionRepository interface {
	Create(ctx context.Context, c *Confession) error
	FindByID(ctx context.Context, id string) (*Confession, error)
	List(ctx context.Context) ([]Confession, error)
	// Like inserts actor into the voter set and increments the counter as
	// one atomic step. ErrNotFound / ErrAlreadyLiked otherwise.
	Like(ctx context.Context, id, actor string) (*Confession, error)
	Delete(ctx context.Context, id string) error
}

// SortNewest orders by creation time, most recent first.
func SortNewest(cs []Confession) {
	sort.SliceStable(cs, func(i, j int) bool {
		return newer(cs[i], cs[j])
	})
}

// Rank sorts by likes descending, ties broken by recency, and keeps at most n.
func Rank(cs []Confession, n int) []Confession {
	out := append([]Confession(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Likes != out[j].Likes {
			return out[i].Likes > out[j].Likes
		}
		return newer(out[i], out[j])
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func newer(a, b Confession) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// View selects which fields of a confession a caller may see.
type View int

const (
	// ViewPublic hides the sender and the voter identities.
	ViewPublic View = iota
	ViewAdmin
)

func (c Confession) As(v View) Confession {
	if v == ViewAdmin {
		return c
	}
	c.SenderID = ""
	c.LikedBy = nil
	return c
}
