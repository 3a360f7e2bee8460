package usecase

import (
	"context"
	"errors"
	"net/mail"
	"slices"
	"unicode/utf8"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
)

const minPasswordLen = 8

type AuthUseCase struct {
	userRepo    UserRepository
	hasher      PasswordHasher
	tokens      TokenManager
	adminEmails []string
	logger      logger.Logger
}

func NewAuthUC(userRepo UserRepository, hasher PasswordHasher, tokens TokenManager, adminEmails []string, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		hasher:      hasher,
		tokens:      tokens,
		adminEmails: adminEmails,
		logger:      logger,
	}
}

// Register создаёт учётную запись. Роль admin выдаётся email-адресам из ADMIN_EMAILS.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*domain.User, error) {
	const op = "AuthUseCase.Register"

	email := domain.NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, e.Wrap(op, e.ErrInvalidEmail)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return nil, e.Wrap(op, e.ErrWeakPassword)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	role := domain.RoleUser
	if slices.Contains(a.adminEmails, email) {
		role = domain.RoleAdmin
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(email, req.Name, hash, role))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("User registered. id: %d, role: %s", user.ID, user.Role)
	return user, nil
}

// Login проверяет пароль и выдаёт токен доступа.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*LoginRes, error) {
	const op = "AuthUseCase.Login"

	user, err := a.userRepo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := a.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	token, expiresAt, err := a.tokens.Issue(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &LoginRes{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (a *AuthUseCase) Me(ctx context.Context, userID int64) (*domain.User, error) {
	const op = "AuthUseCase.Me"

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

func (a *AuthUseCase) Authenticate(_ context.Context, token string) (*Principal, error) {
	const op = "AuthUseCase.Authenticate"

	principal, err := a.tokens.Parse(token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return principal, nil
}
