// internal/client/feed.go
package client

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

const localReactionsNotice = "Likes and bookmarks are kept for this session only and will be lost when you reload."

// Feed holds the public feed page. Reactions are applied optimistically and
// rolled back when the repository call fails.
type Feed struct {
	session  *Session
	repo     Repository
	notifier Notifier
	mode     Mode
	locks    *keyedMutex

	mu          sync.RWMutex
	looks       []models.PublicLook
	query       FeedQuery
	noticeShown bool
}

func NewFeed(session *Session, repo Repository, notifier Notifier, mode Mode) *Feed {
	return &Feed{
		session:  session,
		repo:     repo,
		notifier: notifier,
		mode:     mode,
		locks:    newKeyedMutex(),
		looks:    []models.PublicLook{},
		query:    FeedQuery{Sort: services.FeedSortLatest},
	}
}

func (f *Feed) Looks() []models.PublicLook {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.PublicLook{}, f.looks...)
}

func (f *Feed) Look(publicID string) (models.PublicLook, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.indexOf(publicID); i >= 0 {
		return f.looks[i], true
	}
	return models.PublicLook{}, false
}

// Refresh reloads the feed. It works without a signed-in user.
func (f *Feed) Refresh(ctx context.Context, query FeedQuery) error {
	if query.Sort == "" {
		query.Sort = services.FeedSortLatest
	}
	looks, err := f.repo.ListPublicLooks(ctx, f.session.User(), query)
	if err != nil {
		f.notifier.Error("Could not load the feed", err)
		return err
	}

	f.mu.Lock()
	f.looks = looks
	f.query = query
	f.mu.Unlock()
	return nil
}

func (f *Feed) ToggleLike(ctx context.Context, publicID string) (*models.ReactionState, error) {
	return f.toggle(ctx, publicID, models.ReactionLike)
}

func (f *Feed) ToggleBookmark(ctx context.Context, publicID string) (*models.ReactionState, error) {
	return f.toggle(ctx, publicID, models.ReactionBookmark)
}

// reaction is one dimension of a feed entry's viewer state.
type reaction struct {
	active bool
	count  int64
}

func (f *Feed) toggle(ctx context.Context, publicID string, kind models.ReactionKind) (*models.ReactionState, error) {
	user, err := f.session.Require()
	if err != nil {
		return nil, err
	}

	unlock := f.locks.Lock(publicID)
	defer unlock()

	f.localNotice()

	before, ok := f.read(publicID, kind)
	if !ok {
		return nil, ErrNotFound
	}

	optimistic := reaction{active: !before.active, count: before.count + 1}
	if before.active {
		optimistic.count = before.count - 1
		if optimistic.count < 0 {
			optimistic.count = 0
		}
	}
	f.write(publicID, kind, optimistic)

	state, err := f.repo.ToggleReaction(ctx, user, publicID, kind)
	if err != nil {
		f.write(publicID, kind, before)
		f.notifier.Error("Could not update your reaction. Please try again.", err)
		return nil, err
	}

	f.write(publicID, kind, reaction{active: state.Active, count: state.Count})
	return state, nil
}

func (f *Feed) localNotice() {
	if f.mode != ModeLocal {
		return
	}
	f.mu.Lock()
	shown := f.noticeShown
	f.noticeShown = true
	f.mu.Unlock()
	if !shown {
		f.notifier.Info(localReactionsNotice)
	}
}

func (f *Feed) read(publicID string, kind models.ReactionKind) (reaction, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.indexOf(publicID)
	if i < 0 {
		return reaction{}, false
	}
	look := f.looks[i]
	if kind == models.ReactionBookmark {
		return reaction{active: look.Bookmarked != nil && *look.Bookmarked, count: look.BookmarksCount}, true
	}
	return reaction{active: look.Liked != nil && *look.Liked, count: look.LikesCount}, true
}

func (f *Feed) write(publicID string, kind models.ReactionKind, r reaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(publicID)
	if i < 0 {
		return
	}
	active := r.active
	if kind == models.ReactionBookmark {
		f.looks[i].Bookmarked = &active
		f.looks[i].BookmarksCount = r.count
		return
	}
	f.looks[i].Liked = &active
	f.looks[i].LikesCount = r.count
}

func (f *Feed) indexOf(publicID string) int {
	for i := range f.looks {
		if f.looks[i].PublicID == publicID {
			return i
		}
	}
	return -1
}

// upsert puts a freshly published look at the top of the feed.
func (f *Feed) upsert(look models.PublicLook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOf(look.PublicID); i >= 0 {
		f.looks[i] = look
		return
	}
	f.looks = append([]models.PublicLook{look}, f.looks...)
}

func (f *Feed) remove(publicID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOf(publicID); i >= 0 {
		f.looks = append(f.looks[:i], f.looks[i+1:]...)
	}
}

func (f *Feed) forgetLook(lookID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.looks {
		if f.looks[i].LookID == lookID {
			f.looks = append(f.looks[:i], f.looks[i+1:]...)
			return
		}
	}
}

// reset clears viewer state and re-arms the local reactions notice.
func (f *Feed) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.looks {
		f.looks[i].Liked = nil
		f.looks[i].Bookmarked = nil
	}
	f.noticeShown = false
}

func (f *Feed) currentQuery() FeedQuery {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.query
}
