package user

import (
	"context"
	"fmt"
	"time"

	userRepo "fixly/database/repository/user"
	"fixly/models"
	"fixly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const authTokenTTL = 72 * time.Hour

// UserService manages customer accounts.
type UserService interface {
	Register(ctx context.Context, u models.User) (*models.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, actor models.Actor, id string, req models.UserUpdateRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, id string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func NewDefaultUserService(repo userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo}
}

// Register creates a customer account and returns it with a signed token.
func (svc *DefaultUserService) Register(ctx context.Context, u models.User) (*models.User, string, error) {
	if u.Email == "" || u.Password == "" || u.Name == "" {
		return nil, "", NewValidationError("name, email and password are required")
	}

	if existing, err := svc.Repo.GetByEmail(u.Email); err == nil && existing != nil {
		return nil, "", NewConflictError("a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u.ID = uuid.New().String()
	u.Password = ""
	u.PasswordHash = string(hash)
	u.IsAdmin = false
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := svc.Repo.Create(&u); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(u.ID, string(models.ActorCustomer), authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return &u, token, nil
}

// Authenticate verifies credentials and returns the user with a token.
// Admin accounts receive an admin-role token.
func (svc *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := svc.Repo.GetByEmail(email)
	if err != nil {
		return nil, "", NewUnauthorizedError("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", NewUnauthorizedError("invalid email or password")
	}

	role := string(models.ActorCustomer)
	if u.IsAdmin {
		role = string(models.ActorAdmin)
	}
	token, err := utils.GenerateToken(u.ID, role, authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return u, token, nil
}

// GetUserByID returns a customer account.
func (svc *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := svc.Repo.GetByID(id)
	if err != nil {
		if err == userRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("user %s not found", id))
		}
		return nil, err
	}
	return u, nil
}

// UpdateUser patches profile fields. Only the user itself or an admin may
// update. Existing bookings keep their userDetails snapshot.
func (svc *DefaultUserService) UpdateUser(ctx context.Context, actor models.Actor, id string, req models.UserUpdateRequest) (*models.User, error) {
	if !actor.IsAdmin() && !(actor.Kind == models.ActorCustomer && actor.ID == id) {
		return nil, NewUnauthorizedError("only the user or an admin may update this account")
	}

	setDoc := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		setDoc["name"] = *req.Name
	}
	if req.PhoneNumber != nil {
		setDoc["phoneNumber"] = *req.PhoneNumber
	}
	if req.Location != nil {
		setDoc["location"] = *req.Location
	}
	if req.FCMToken != nil {
		setDoc["fcmToken"] = *req.FCMToken
	}

	if err := svc.Repo.UpdateSetDocument(id, setDoc); err != nil {
		if err == userRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("user %s not found", id))
		}
		return nil, err
	}
	return svc.GetUserByID(ctx, id)
}

// DeleteUser removes a customer account.
func (svc *DefaultUserService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() && !(actor.Kind == models.ActorCustomer && actor.ID == id) {
		return NewUnauthorizedError("only the user or an admin may delete this account")
	}
	if err := svc.Repo.Delete(id); err != nil {
		if err == userRepo.ErrNotFound {
			return NewNotFoundError(fmt.Sprintf("user %s not found", id))
		}
		return err
	}
	return nil
}
