package catalog

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setlist/pkg/observability"
)

// Source supplies collection pages and owner profiles.
// [Client] and [MongoSource] implement it.
type Source interface {
	Collection(ctx context.Context, userID string, page, size int) (*Page, error)
	User(ctx context.Context, userID string) (*User, error)
}

// View is what the card grid needs to render one collection page.
type View struct {
	OwnerID   string
	OwnerName string // empty when the owner profile could not be loaded
	Page      *Page
	Items     []Item
	Err       error // collection error the view degraded from, if any
}

// LoadView fetches a collection page and its owner's name from src.
//
// It never fails: a collection error is logged and yields an empty item
// list (with Err set), and a profile error only leaves OwnerName empty.
// After a collection error the profile is not requested, and the page is
// not re-requested.
func LoadView(ctx context.Context, src Source, logger *log.Logger, userID string, page, size int) View {
	page, size = normalizePaging(page, size)
	v := View{OwnerID: userID, Items: []Item{}}

	start := time.Now()
	p, err := src.Collection(ctx, userID, page, size)
	if err != nil {
		logger.Error("failed to load collection", "user", userID, "page", page, "err", err)
		v.Err = err
		v.Page = NewPage(nil, page, size, 0)
	} else {
		v.Page = p
		v.Items = p.Content
	}
	observability.View().OnLoad(ctx, userID, page, len(v.Items), time.Since(start), err)
	if v.Err != nil {
		return v
	}

	if u, err := src.User(ctx, userID); err != nil {
		logger.Warn("failed to load owner", "user", userID, "err", err)
	} else {
		v.OwnerName = u.Name()
	}
	return v
}
