package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/coupon"
	"github.com/avstrong/lakeside/internal/logger"
)

type Config struct {
	L   *logger.Logger
	Now func() time.Time
	// SessionTTL evicts sessions idle for longer. Zero keeps them until deleted.
	SessionTTL time.Duration
}

type couponEntry struct {
	coupons   []coupon.Coupon
	expiresAt time.Time
}

type sessionEntry struct {
	session   *booking.Session
	touchedAt time.Time
}

type submissionKey struct {
	sessionID      string
	idempotencyKey string
}

// DB keeps booking sessions, their submissions by idempotency key and the
// coupon list cache in process memory.
type DB struct {
	mu          sync.Mutex
	l           *logger.Logger
	now         func() time.Time
	sessionTTL  time.Duration
	sessions    map[string]*sessionEntry
	submissions map[submissionKey]*booking.Submission
	coupons     *couponEntry
}

func New(conf Config) *DB {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	//nolint:exhaustruct
	return &DB{
		l:           conf.L,
		now:         now,
		sessionTTL:  conf.SessionTTL,
		sessions:    make(map[string]*sessionEntry),
		submissions: make(map[submissionKey]*booking.Submission),
	}
}

func (db *DB) SaveSession(_ context.Context, session *booking.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if session.ID() == "" {
		return ErrEmptySessionID
	}

	db.evictIdle()
	db.sessions[session.ID()] = &sessionEntry{session: session, touchedAt: db.now()}

	return nil
}

func (db *DB) GetSession(_ context.Context, id string) (*booking.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	entry, ok := db.sessions[id]
	if !ok {
		return nil, booking.ErrRecordNotFound
	}

	if db.expired(entry) {
		db.drop(id)

		return nil, booking.ErrRecordNotFound
	}

	entry.touchedAt = db.now()

	return entry.session, nil
}

func (db *DB) DeleteSession(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.drop(id)

	return nil
}

func (db *DB) expired(entry *sessionEntry) bool {
	return db.sessionTTL > 0 && db.now().Sub(entry.touchedAt) >= db.sessionTTL
}

// evictIdle must be called with db.mu held.
func (db *DB) evictIdle() {
	if db.sessionTTL <= 0 {
		return
	}

	var evicted int

	for id, entry := range db.sessions {
		if db.expired(entry) {
			db.drop(id)

			evicted++
		}
	}

	if evicted > 0 {
		db.l.LogDebugf("Evicted %d idle sessions", evicted)
	}
}

func (db *DB) drop(id string) {
	delete(db.sessions, id)

	for key := range db.submissions {
		if key.sessionID == id {
			delete(db.submissions, key)
		}
	}
}

func (db *DB) SaveSubmission(ctx context.Context, submission *booking.Submission) error {
	key, err := booking.RequireIdempotencyKey(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if submission.SessionID == "" {
		return ErrEmptySessionID
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *submission
	db.submissions[submissionKey{sessionID: submission.SessionID, idempotencyKey: key}] = &stored

	return nil
}

func (db *DB) GetSubmissionByIdempotencyKey(ctx context.Context, sessionID string) (*booking.Submission, error) {
	key, err := booking.RequireIdempotencyKey(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	submission, exists := db.submissions[submissionKey{sessionID: sessionID, idempotencyKey: key}]
	if !exists {
		return nil, booking.ErrRecordNotFound
	}

	stored := *submission

	return &stored, nil
}

func (db *DB) LoadCoupons(_ context.Context) ([]coupon.Coupon, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.coupons == nil || !db.now().Before(db.coupons.expiresAt) {
		return nil, false, nil
	}

	out := make([]coupon.Coupon, len(db.coupons.coupons))
	copy(out, db.coupons.coupons)

	return out, true, nil
}

func (db *DB) StoreCoupons(_ context.Context, coupons []coupon.Coupon, ttl time.Duration) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if ttl <= 0 {
		db.coupons = nil

		return nil
	}

	stored := make([]coupon.Coupon, len(coupons))
	copy(stored, coupons)

	db.coupons = &couponEntry{coupons: stored, expiresAt: db.now().Add(ttl)}
	db.l.LogDebugf("Coupon list cached: %d coupons for %v", len(stored), ttl)

	return nil
}
