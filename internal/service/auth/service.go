package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/torqsight/maintenance-backend-go/internal/domain/auth"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/jwt"
)

// Service handles registration and the token lifecycle. Registration creates
// an unassigned principal: company membership is granted later, through
// onboarding or invitation acceptance, never here.
type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (user.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error)
	Logout(refreshToken string)
}

type serviceImpl struct {
	userRepo user.UserRepository
	jwtSvc   jwt.Service
}

func NewService(userRepo user.UserRepository, jwtSvc jwt.Service) Service {
	return &serviceImpl{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
	}
}

// Register implements Service.
func (s *serviceImpl) Register(ctx context.Context, req auth.RegisterRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetByEmail(ctx, normalized); err == nil {
		return user.User{}, user.ErrUserEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}
	hashStr := string(hash)

	return s.userRepo.Create(ctx, user.User{
		Email:        normalized,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         user.RoleTechnician,
	})
}

// Login implements Service. Unknown email and wrong password produce the same
// error.
func (s *serviceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if u.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)) != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// Refresh implements Service. Refresh tokens rotate: the presented token is
// revoked and a fresh pair is issued.
func (s *serviceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	token, err := jwtauth.VerifyToken(s.jwtSvc.JWTAuth(), refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	if s.jwtSvc.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrRefreshTokenRevoked
	}

	userID, _ := claims["user_id"].(string)
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	s.jwtSvc.RevokeToken(refreshToken)
	return s.issueTokens(u)
}

// Logout implements Service.
func (s *serviceImpl) Logout(refreshToken string) {
	s.jwtSvc.RevokeToken(refreshToken)
}

func (s *serviceImpl) issueTokens(u user.User) (auth.LoginResponse, error) {
	accessToken, accessExp, err := s.jwtSvc.GenerateAccessToken(u)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	refreshToken, refreshExp, err := s.jwtSvc.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		NeedsOnboarding:       !u.IsAssigned(),
	}, nil
}
