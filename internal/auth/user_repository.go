package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyderfleet/fleetops/internal/docstore"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetProfile(ctx context.Context, username string) (*User, error)
	InsertMany(ctx context.Context, users []User) error
	Count(ctx context.Context) (int, error)
}

// userDocument is the stored shape of a user; unlike User it keeps the hash.
type userDocument struct {
	User
	Password string `json:"password,omitempty"`
}

func toDocument(u User) userDocument {
	u.CreatedAt = u.CreatedAt.UTC()
	return userDocument{User: u, Password: u.PasswordHash}
}

// DocUserRepository implements UserRepository on the document store.
type DocUserRepository struct {
	users *docstore.Collection
}

// NewUserRepository creates a document-store-backed user repository.
func NewUserRepository(store *docstore.Store) *DocUserRepository {
	return &DocUserRepository{users: store.Collection(CollectionUsers)}
}

// Create inserts a new user account. The ID is generated if empty.
func (r *DocUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := r.users.InsertOne(ctx, toDocument(*user)); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user, including the password hash.
func (r *DocUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, docstore.Filter{docstore.Eq("username", username)}, &doc); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	user := doc.User
	user.PasswordHash = doc.Password
	return &user, nil
}

// GetProfile retrieves a user without reading the password hash.
func (r *DocUserRepository) GetProfile(ctx context.Context, username string) (*User, error) {
	var doc userDocument
	err := r.users.FindOneWithOptions(ctx,
		docstore.Filter{docstore.Eq("username", username)},
		docstore.FindOptions{Projection: []string{"password"}},
		&doc,
	)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	return &doc.User, nil
}

// InsertMany stores several accounts in one batch.
func (r *DocUserRepository) InsertMany(ctx context.Context, users []User) error {
	docs := make([]any, len(users))
	for i := range users {
		if users[i].ID == "" {
			users[i].ID = uuid.NewString()
		}
		docs[i] = toDocument(users[i])
	}
	if err := r.users.InsertMany(ctx, docs); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return ErrUsernameExists
		}
		return fmt.Errorf("inserting users: %w", err)
	}
	return nil
}

// Count returns the number of accounts.
func (r *DocUserRepository) Count(ctx context.Context) (int, error) {
	n, err := r.users.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}
