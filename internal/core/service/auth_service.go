package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// AuthService implements registration, login and session validation.
type AuthService struct {
	repo        ports.UserRepository
	sessions    ports.SessionStore
	jwtSecret   string
	tokenTTL    time.Duration
	adminEmails map[string]struct{}
	log         zerolog.Logger
}

// AuthOptions configures an AuthService.
type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AdminEmails are registered with the admin role.
	AdminEmails []string
}

func NewAuthService(repo ports.UserRepository, sessions ports.SessionStore, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	admins := make(map[string]struct{}, len(opts.AdminEmails))
	for _, e := range opts.AdminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AuthService{
		repo:        repo,
		sessions:    sessions,
		jwtSecret:   opts.JWTSecret,
		tokenTTL:    opts.TokenTTL,
		adminEmails: admins,
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// sessionClaims is the JWT payload. The subject is the user ID.
type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) generateToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := sessionClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	return signed, expiresAt, err
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*ports.Principal, error) {
	if token == "" {
		return nil, &domain.Error{Kind: domain.ErrUnauthenticated, Msg: "missing credentials"}
	}

	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	if claims.ID != "" && s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail open on store errors.
			s.log.Warn().Err(err).Str("user_id", claims.Subject).Msg("session revocation check failed")
		} else if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	p := &ports.Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

func (s *AuthService) Logout(ctx context.Context, p *ports.Principal) error {
	if p == nil || p.TokenID == "" || s.sessions == nil {
		return nil
	}
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.sessions.Revoke(ctx, p.TokenID, ttl); err != nil {
		return err
	}
	s.log.Info().Str("user_id", p.UserID).Msg("session revoked")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.Invalid("role must be one of: admin user")
	}
	user, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("role", role).Msg("role updated")
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
