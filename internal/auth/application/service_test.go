package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wyfcoding/inventory/internal/auth/domain"
	"github.com/wyfcoding/inventory/internal/auth/infrastructure/security"
)

type fakeUserRepo struct {
	users   map[string]*domain.User // keyed by email
	saveErr error
}

func (f *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.users == nil {
		f.users = map[string]*domain.User{}
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.users[email], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	if f.sessions == nil {
		f.sessions = map[string]*domain.Session{}
	}
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	return f.sessions[token], nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func testHasher() *security.Hasher {
	// Cheap parameters keep the test fast; production uses DefaultParams.
	return security.NewHasher(security.Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func newTestService() (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	users := &fakeUserRepo{}
	sessions := &fakeSessionRepo{}
	return NewAuthService(users, sessions, testHasher(), 24*time.Hour), users, sessions
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a user id")
	}

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "other"})
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("insert race on the unique index still reports the taken email", func(t *testing.T) {
		// A concurrent registration can land between the lookup and the
		// insert. The store reports the index collision as ErrEmailTaken
		// and it must surface unchanged, not as a generic failure.
		racing, users, _ := newTestService()
		users.saveErr = domain.ErrEmailTaken
		_, err := racing.Register(ctx, RegisterCommand{Email: "x@b.c", Password: "hunter2hunter2"})
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	t.Run("valid credentials open a session", func(t *testing.T) {
		session, err := svc.Login(ctx, LoginCommand{Email: "a@b.c", Password: "hunter2hunter2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Token == "" {
			t.Fatal("expected a session token")
		}
		if !session.ExpiresAt.After(time.Now()) {
			t.Fatal("session must expire in the future")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginCommand{Email: "a@b.c", Password: "wrong"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginCommand{Email: "nobody@b.c", Password: "hunter2hunter2"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestCurrentUser(t *testing.T) {
	svc, _, sessions := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.c", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	session, err := svc.Login(ctx, LoginCommand{Email: "a@b.c", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	t.Run("valid token resolves the user", func(t *testing.T) {
		user, err := svc.CurrentUser(ctx, session.Token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "a@b.c" {
			t.Fatalf("unexpected user: %s", user.Email)
		}
	})

	t.Run("empty token requires auth", func(t *testing.T) {
		_, err := svc.CurrentUser(ctx, "")
		if !errors.Is(err, domain.ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("unknown token requires auth", func(t *testing.T) {
		_, err := svc.CurrentUser(ctx, "bogus")
		if !errors.Is(err, domain.ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("expired session requires auth", func(t *testing.T) {
		sessions.sessions[session.Token].ExpiresAt = time.Now().Add(-time.Minute)
		_, err := svc.CurrentUser(ctx, session.Token)
		if !errors.Is(err, domain.ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}
	})
}
