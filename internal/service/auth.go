package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/repository"
	"github.com/printmate/printmate/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const AuthCookieName = "auth_token"

var (
	ErrAccountNotFound   = errors.New("no account found with this email or phone number")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidSession    = errors.New("invalid session")
)

// ValidationErrors maps form fields to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type RegisterInput struct {
	Email     string
	Phone     string
	Firstname string
	Lastname  string
	Password  string
}

type AuthService struct {
	userRepository repository.UserRepository
	identities     *expirable.LRU[string, *model.Identity]
	jwtSecret      string
	isProduction   bool
	jwtExpiry      time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	cacheSize int,
	cacheTTL time.Duration,
) *AuthService {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	return &AuthService{
		userRepository: userRepository,
		identities:     expirable.NewLRU[string, *model.Identity](cacheSize, nil, cacheTTL),
		jwtSecret:      jwtSecret,
		isProduction:   isProduction,
		jwtExpiry:      jwtExpiry,
	}
}

// Login authenticates by email or phone number plus password.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *model.User
		err  error
	)
	if validation.IsEmailIdentifier(identifier) {
		user, err = s.userRepository.ByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepository.ByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrIncorrectPassword
	}

	s.identities.Add(user.ID, user.Identity())
	return user, nil
}

// Register creates an account after validating every field.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)

	errs := ValidationErrors{}
	if err := validation.ValidateEmail(in.Email); err != nil {
		errs["email"] = err.Error()
	}
	if in.Phone != "" {
		if err := validation.ValidatePhone(in.Phone); err != nil {
			errs["phone"] = err.Error()
		}
	}
	if err := validation.ValidateName("first name", in.Firstname); err != nil {
		errs["firstname"] = err.Error()
	}
	if err := validation.ValidateName("last name", in.Lastname); err != nil {
		errs["lastname"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		errs["password"] = err.Error()
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if in.Phone != "" {
		user.Phone = &in.Phone
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Identity resolves a user ID to its session identity, served from a short-lived cache.
func (s *AuthService) Identity(ctx context.Context, userID string) (*model.Identity, error) {
	if id, ok := s.identities.Get(userID); ok {
		identityCacheTotal.WithLabelValues("hit").Inc()
		return id, nil
	}
	identityCacheTotal.WithLabelValues("miss").Inc()

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id := user.Identity()
	s.identities.Add(userID, id)
	return id, nil
}

// Forget drops a cached identity, e.g. on logout.
func (s *AuthService) Forget(userID string) {
	s.identities.Remove(userID)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     expiry.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

// VerifyJWT validates the token and returns the user ID it was issued for.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSession
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidSession
	}

	return userID, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
