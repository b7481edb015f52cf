package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

type fakeQueries struct {
	mu            sync.Mutex
	usersByEmail  map[string]db.User
	usersByID     map[string]db.User
	refreshByHash map[string]db.RefreshToken
	resetsByHash  map[string]db.PasswordReset
	resetsByID    map[string]db.PasswordReset
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		usersByEmail:  make(map[string]db.User),
		usersByID:     make(map[string]db.User),
		refreshByHash: make(map[string]db.RefreshToken),
		resetsByHash:  make(map[string]db.PasswordReset),
		resetsByID:    make(map[string]db.PasswordReset),
	}
}

func pgUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func pgTimestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func uuidKey(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}

func (f *fakeQueries) CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(arg.Email)
	if _, exists := f.usersByEmail[key]; exists {
		return db.User{}, fmt.Errorf("duplicate email")
	}
	user := db.User{
		ID:           pgUUID(),
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Roles:        []string{"user"},
		CreatedAt:    pgTimestamp(time.Now()),
	}
	f.usersByEmail[key] = user
	f.usersByID[uuidKey(user.ID)] = user
	return user, nil
}

func (f *fakeQueries) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.usersByEmail[strings.ToLower(email)]
	if !ok {
		return db.User{}, fmt.Errorf("user not found")
	}
	return user, nil
}

func (f *fakeQueries) GetUserByID(ctx context.Context, id pgtype.UUID) (db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.usersByID[uuidKey(id)]
	if !ok {
		return db.User{}, fmt.Errorf("user not found")
	}
	return user, nil
}

func (f *fakeQueries) UpdateUserPassword(ctx context.Context, arg db.UpdateUserPasswordParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.usersByID[uuidKey(arg.ID)]
	if !ok {
		return fmt.Errorf("user not found")
	}
	user.PasswordHash = arg.PasswordHash
	f.usersByID[uuidKey(arg.ID)] = user
	f.usersByEmail[strings.ToLower(user.Email)] = user
	return nil
}

func (f *fakeQueries) InsertRefreshToken(ctx context.Context, arg db.InsertRefreshTokenParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshByHash[arg.TokenHash] = db.RefreshToken{
		ID:        pgUUID(),
		UserID:    arg.UserID,
		TokenHash: arg.TokenHash,
		UserAgent: arg.UserAgent,
		IP:        arg.IP,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: pgTimestamp(time.Now()),
	}
	return nil
}

func (f *fakeQueries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (db.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.refreshByHash[tokenHash]
	if !ok {
		return db.RefreshToken{}, fmt.Errorf("refresh token not found")
	}
	return token, nil
}

func (f *fakeQueries) RevokeRefreshToken(ctx context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, token := range f.refreshByHash {
		if uuidKey(token.ID) == uuidKey(id) {
			delete(f.refreshByHash, hash)
		}
	}
	return nil
}

func (f *fakeQueries) InsertPasswordReset(ctx context.Context, arg db.InsertPasswordResetParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reset := db.PasswordReset{
		ID:        pgUUID(),
		UserID:    arg.UserID,
		TokenHash: arg.TokenHash,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: pgTimestamp(time.Now()),
	}
	f.resetsByHash[arg.TokenHash] = reset
	f.resetsByID[uuidKey(reset.ID)] = reset
	return nil
}

func (f *fakeQueries) GetPasswordResetByHash(ctx context.Context, tokenHash string) (db.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reset, ok := f.resetsByHash[tokenHash]
	if !ok {
		return db.PasswordReset{}, fmt.Errorf("reset not found")
	}
	return reset, nil
}

func (f *fakeQueries) MarkPasswordResetUsed(ctx context.Context, id pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reset, ok := f.resetsByID[uuidKey(id)]
	if !ok {
		return 0, nil
	}
	delete(f.resetsByID, uuidKey(id))
	delete(f.resetsByHash, reset.TokenHash)
	return 1, nil
}

func newTestService(t interface{ Fatalf(string, ...any) }, queries Querier) *Service {
	svc, err := NewService(Config{
		Queries:         queries,
		Secret:          "super-secret-key",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		ResetTokenTTL:   time.Hour,
		Issuer:          "backend-lojinha",
		Audience:        "lojinha-app",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
