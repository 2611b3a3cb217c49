package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity provider: it registers profiles, issues
// bearer tokens and resolves tokens back to profiles.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// RegisterInput is the data needed to create a profile.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
	Phone    *string
	Address  *string
}

// ProfileUpdate holds the optional profile fields a user may change.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Address  *string
}

// RegisterUser registers a new buyer or seller and saves the profile.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleBuyer
	}
	if in.Role != models.RoleBuyer && in.Role != models.RoleSeller {
		return nil, fmt.Errorf("%w: role must be buyer or seller", ErrValidation)
	}
	return s.createUser(ctx, in)
}

// EnsureAdmin creates the admin profile if no profile uses the email yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = normalizeEmail(email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: email '%s' belongs to a %s", ErrConflict, email, existing.Role)
		}
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError(err, "look up admin")
	}
	return s.createUser(ctx, RegisterInput{Email: email, Password: password, FullName: fullName, Role: models.RoleAdmin})
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)

	// Check if email already exists
	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email '%s' already registered", ErrConflict, in.Email)
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError(err, "look up email")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: string(hashedPassword),
		FullName: in.FullName,
		Role:     in.Role,
		Phone:    in.Phone,
		Address:  in.Address,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "register user")
	}
	return user, nil
}

// LoginUser authenticates a user and returns a signed access token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return "", nil, storeError(err, "look up user")
		}
		// Do not reveal whether the email exists
		return "", nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   now.Add(s.tokenDurat).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", ErrUnauthorized, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
}

// Authenticate resolves a bearer token to the profile it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user profile not found", ErrNotFound)
		}
		return nil, storeError(err, "load profile")
	}
	if !user.Role.Valid() {
		log.Printf("Profile %s has unknown role %q", user.ID, user.Role)
		return nil, fmt.Errorf("%w: profile has no valid role", ErrForbidden)
	}
	return user, nil
}

// UpdateProfile changes the caller's own profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, update ProfileUpdate) (*models.User, error) {
	fields := map[string]interface{}{}
	if update.FullName != nil {
		fields["full_name"] = *update.FullName
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if len(fields) == 0 {
		return user, nil
	}

	updated, err := s.userRepo.Update(ctx, user.ID, fields)
	if err != nil {
		return nil, storeError(err, "update profile")
	}
	return updated, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
