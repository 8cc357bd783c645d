package accounts

import (
	"context"
	"errors"
	"testing"

	"bursar/internal/platform/models"
	"bursar/internal/platform/repositories"
)

type MockStore struct {
	users   map[string]*models.User
	nextID  int64
	creates int
}

func newMockStore() *MockStore {
	return &MockStore{users: map[string]*models.User{}}
}

func (m *MockStore) Create(ctx context.Context, user *models.User) error {
	if user.Username == "error" {
		return errors.New("db error")
	}
	m.creates++
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.users[username], nil
}

func (m *MockStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

// racingStore reports every username as free, then loses the insert to a
// row written in the meantime.
type racingStore struct {
	*MockStore
}

func (r racingStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (r racingStore) Create(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.Username]; ok {
		return repositories.ErrDuplicateUsername
	}
	return r.MockStore.Create(ctx, user)
}

func TestService_SignupConcurrentDuplicate(t *testing.T) {
	store := racingStore{newMockStore()}
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "clerk", "pa55word"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	_, err := svc.Signup(ctx, "clerk", "other")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
	if store.creates != 1 {
		t.Errorf("Expected 1 insert, got %d", store.creates)
	}
}

func TestService_Signup(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "clerk", "pa55word")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected user id to be assigned")
	}
	if user.PasswordHash == "pa55word" {
		t.Error("Expected password to be hashed")
	}

	// duplicate leaves the store untouched
	before := store.creates
	_, err = svc.Signup(ctx, "clerk", "other")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
	if store.creates != before {
		t.Errorf("Expected no insert on duplicate, got %d extra", store.creates-before)
	}
	if store.users["clerk"].ID != user.ID {
		t.Error("Expected first user to be preserved")
	}
}

func TestService_SignupValidation(t *testing.T) {
	svc := NewService(newMockStore())

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"Blank Username", "   ", "x", ErrMissingCredentials},
		{"Blank Password", "a", "", ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Signup() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Signup(context.Background(), "error", "x"); err == nil {
		t.Error("Expected store error to propagate")
	}
}

func TestService_Login(t *testing.T) {
	svc := NewService(newMockStore())
	ctx := context.Background()

	created, err := svc.Signup(ctx, "clerk", "pa55word")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"Valid", "clerk", "pa55word", false},
		{"Wrong Password", "clerk", "nope", true},
		{"Unknown User", "ghost", "pa55word", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(ctx, tt.username, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Expected ErrInvalidCredentials, got %v", err)
			}
			if !tt.wantErr && user.ID != created.ID {
				t.Errorf("Expected user %d, got %d", created.ID, user.ID)
			}
		})
	}

	loaded, err := svc.LoadUser(ctx, created.ID)
	if err != nil || loaded == nil || loaded.Username != "clerk" {
		t.Errorf("LoadUser() = %+v, %v", loaded, err)
	}
	missing, err := svc.LoadUser(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("Expected nil for unknown id, got %+v, %v", missing, err)
	}
}
