package provider

import (
	"context"
	"fmt"
	"time"

	providerRepo "fixly/database/repository/provider"
	"fixly/models"
	"fixly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const authTokenTTL = 72 * time.Hour

// ProviderService manages provider accounts and their service catalogues.
type ProviderService interface {
	Register(ctx context.Context, p models.Provider) (*models.Provider, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.Provider, string, error)
	GetProviderByID(ctx context.Context, id string, fullAccess bool) (*models.Provider, error)
	UpdateProvider(ctx context.Context, actor models.Actor, id string, req models.ProviderUpdateRequest) (*models.Provider, error)
	DeleteProvider(ctx context.Context, actor models.Actor, id string) error
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo providerRepo.ProviderRepository
}

func NewDefaultProviderService(repo providerRepo.ProviderRepository) *DefaultProviderService {
	return &DefaultProviderService{Repo: repo}
}

// Register creates a provider account and returns it with a signed token.
func (svc *DefaultProviderService) Register(ctx context.Context, p models.Provider) (*models.Provider, string, error) {
	if p.Profile.Email == "" || p.Security.Password == "" || p.Profile.Name == "" {
		return nil, "", NewValidationError("name, email and password are required")
	}
	if err := validateServices(p.Services); err != nil {
		return nil, "", err
	}

	if existing, err := svc.Repo.GetByEmail(p.Profile.Email); err == nil && existing != nil {
		return nil, "", NewConflictError("a provider with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Security.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	p.ID = uuid.New().String()
	p.Security = models.ProviderSecurity{PasswordHash: string(hash)}
	p.AverageRating = 0
	p.TotalReviews = 0
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := svc.Repo.Create(&p); err != nil {
		return nil, "", fmt.Errorf("failed to create provider: %w", err)
	}

	token, err := utils.GenerateToken(p.ID, string(models.ActorProvider), authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	sanitize(&p)
	return &p, token, nil
}

// Authenticate verifies credentials and returns the provider with a token.
func (svc *DefaultProviderService) Authenticate(ctx context.Context, email, password string) (*models.Provider, string, error) {
	p, err := svc.Repo.GetByEmail(email)
	if err != nil {
		return nil, "", NewUnauthorizedError("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(p.Security.PasswordHash), []byte(password)) != nil {
		return nil, "", NewUnauthorizedError("invalid email or password")
	}
	token, err := utils.GenerateToken(p.ID, string(models.ActorProvider), authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	sanitize(p)
	return p, token, nil
}

// GetProviderByID returns a provider. Without fullAccess the security block
// is stripped.
func (svc *DefaultProviderService) GetProviderByID(ctx context.Context, id string, fullAccess bool) (*models.Provider, error) {
	p, err := svc.Repo.GetByID(id)
	if err != nil {
		if err == providerRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("provider %s not found", id))
		}
		return nil, err
	}
	if !fullAccess {
		sanitize(p)
	}
	return p, nil
}

// UpdateProvider patches profile fields and the service catalogue. Only the
// provider itself or an admin may update. Catalogue edits never touch
// existing bookings; they only gate future capability checks.
func (svc *DefaultProviderService) UpdateProvider(ctx context.Context, actor models.Actor, id string, req models.ProviderUpdateRequest) (*models.Provider, error) {
	if !actor.IsAdmin() && !(actor.Kind == models.ActorProvider && actor.ID == id) {
		return nil, NewUnauthorizedError("only the provider or an admin may update this account")
	}

	setDoc := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		setDoc["profile.name"] = *req.Name
	}
	if req.PhoneNumber != nil {
		setDoc["profile.phoneNumber"] = *req.PhoneNumber
	}
	if req.Description != nil {
		setDoc["profile.description"] = *req.Description
	}
	if req.Address != nil {
		setDoc["profile.address"] = *req.Address
	}
	if req.Services != nil {
		if err := validateServices(*req.Services); err != nil {
			return nil, err
		}
		setDoc["services"] = *req.Services
	}
	if req.FCMToken != nil {
		setDoc["security.fcmToken"] = *req.FCMToken
	}

	if err := svc.Repo.UpdateSetDocument(id, setDoc); err != nil {
		if err == providerRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("provider %s not found", id))
		}
		return nil, err
	}
	return svc.GetProviderByID(ctx, id, false)
}

// DeleteProvider removes a provider account.
func (svc *DefaultProviderService) DeleteProvider(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() && !(actor.Kind == models.ActorProvider && actor.ID == id) {
		return NewUnauthorizedError("only the provider or an admin may delete this account")
	}
	if err := svc.Repo.Delete(id); err != nil {
		if err == providerRepo.ErrNotFound {
			return NewNotFoundError(fmt.Sprintf("provider %s not found", id))
		}
		return err
	}
	return nil
}

func validateServices(services []models.ServiceOffering) error {
	for _, s := range services {
		if s.CategoryID == "" {
			return NewValidationError("every service entry needs a categoryId")
		}
		if s.HourlyRate < 0 {
			return NewValidationError("hourly rate cannot be negative")
		}
	}
	return nil
}

func sanitize(p *models.Provider) {
	p.Security = models.ProviderSecurity{}
}
