// Package services contains server-side business logic. This file implements
// IdentityService, which handles registration, login, token-based identity
// resolution, profile lookup, and profile update.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nuliana/getapet/internal/common"
	"github.com/nuliana/getapet/internal/logging"
	"github.com/nuliana/getapet/internal/server/auth"
	"github.com/nuliana/getapet/internal/server/config"
	"github.com/nuliana/getapet/internal/server/models"
	"github.com/nuliana/getapet/internal/server/repositories/accounts"
	"github.com/nuliana/getapet/internal/server/repositories/repomanager"
)

// Client-facing messages, kept in Portuguese as the app has always shipped
// them. The HTTP layer picks among these per endpoint.
const (
	MsgNameRequired            = "O nome é obrigatório"
	MsgEmailRequired           = "O email é obrigatório"
	MsgPhoneRequired           = "O telefone é obrigatório"
	MsgPasswordRequired        = "A senha é obrigatória"
	MsgConfirmPasswordRequired = "A confirmacao de senha é obrigatória"
	MsgPasswordMismatch        = "A senha e a confirmacao de senha precisam ser iguais"
	MsgEmailTaken              = "Por favor, utilize outro email"
	MsgEmailAlreadyRegistered  = "Email ja cadastrado!"
	MsgAccountNotFound         = "Usuario nao encontrado"
	MsgNoAccountWithEmail      = "Nao existe um usuario com esse email"
	MsgWrongPassword           = "Senha incorreta"
	MsgAccessDenied            = "Acesso negado!"
	MsgAuthenticated           = "Voce esta autenticado"
	MsgProfileUpdated          = "Usuario atualizado com sucesso"
	MsgInternalError           = "Erro interno, tente novamente mais tarde"
)

// AuthResult is what a successful registration or login returns.
type AuthResult struct {
	Token     string
	AccountID string
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Email    string
	Password string
}

// ProfileUpdateInput carries the profile edit form fields. ImageRef is the
// filename of a newly uploaded image; empty means no new upload. Password
// and ConfirmPassword both empty leave the stored hash untouched.
type ProfileUpdateInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	ImageRef        string
}

// IdentityService provides the account operations:
//   - Register: create accounts and issue a session token
//   - Login: verify credentials and issue a session token
//   - CurrentAccount: resolve a bearer token back to its account
//   - PublicProfile: password-free account lookup
//   - UpdateProfile: mutate the acting account's profile
type IdentityService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	jwtSecret []byte
	logger    logging.Logger
}

// NewIdentityService constructs an IdentityService using repositories and
// server config. The store handle is passed in explicitly; there is no
// ambient global connection.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *IdentityService {
	return &IdentityService{
		db:        db,
		repos:     m,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    logger,
	}
}

// Register validates the input, refuses taken emails, stores the account
// with a hashed password, and returns a freshly issued token.
//
// The email existence check and the insert are separate store calls; two
// concurrent registrations can both pass the check. The insert itself is
// backed by the store's uniqueness guarantee, so the loser of that race
// still gets ErrEmailTaken rather than a duplicate account.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {

	if in.Name == "" {
		return nil, common.NewValidationError("name", MsgNameRequired)
	}
	if in.Email == "" {
		return nil, common.NewValidationError("email", MsgEmailRequired)
	}
	if in.Phone == "" {
		return nil, common.NewValidationError("phone", MsgPhoneRequired)
	}
	if in.Password == "" {
		return nil, common.NewValidationError("password", MsgPasswordRequired)
	}
	if in.ConfirmPassword == "" {
		return nil, common.NewValidationError("confirmpassword", MsgConfirmPasswordRequired)
	}
	if in.Password != in.ConfirmPassword {
		return nil, common.ErrPasswordMismatch
	}

	repo := s.repos.Accounts(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrEmailTaken
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrInternal
	}

	account, err := repo.Create(ctx, &models.Account{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrEmailTaken
		}
		s.logger.Error(ctx, "account insert failed", "error", err)
		return nil, common.ErrInternal
	}

	return s.authResult(ctx, account)
}

// Login verifies the credentials against the stored hash and, on success,
// returns a freshly issued token.
func (s *IdentityService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {

	if in.Email == "" {
		return nil, common.NewValidationError("email", MsgEmailRequired)
	}
	if in.Password == "" {
		return nil, common.NewValidationError("password", MsgPasswordRequired)
	}

	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccountNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	ok, err := auth.CheckPassword(in.Password, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "password check failed", "error", err, "account", account.ID)
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.authResult(ctx, account)
}

// CurrentAccount resolves the Authorization header to the acting account.
// An absent header is the anonymous state: (nil, nil), not an error. The
// returned account has its password hash cleared.
func (s *IdentityService) CurrentAccount(ctx context.Context, authHeader string) (*models.Account, error) {

	token, present := auth.BearerToken(authHeader)
	if !present {
		return nil, nil
	}

	accountID, _, err := auth.VerifyToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		// the token outlived its account
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccountNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	account.PasswordHash = ""
	return account, nil
}

// PublicProfile returns the account with the given id, password hash
// cleared.
func (s *IdentityService) PublicProfile(ctx context.Context, id string) (*models.Account, error) {

	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccountNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	account.PasswordHash = ""
	return account, nil
}

// UpdateProfile mutates the account resolved from the bearer token. The
// path id is accepted by the route for interface symmetry but the acting
// account's own identity governs the mutation. Name is validated for
// presence but, as in every shipped version of this API, not written back.
func (s *IdentityService) UpdateProfile(ctx context.Context, authHeader, id string, in ProfileUpdateInput) error {

	token, present := auth.BearerToken(authHeader)
	if !present {
		return common.ErrInvalidToken
	}
	accountID, _, err := auth.VerifyToken(token, s.jwtSecret)
	if err != nil {
		return common.ErrInvalidToken
	}

	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrAccountNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return common.ErrInternal
	}

	upd := accounts.Update{}
	if in.ImageRef != "" {
		upd.Image = &in.ImageRef
	}

	if in.Name == "" {
		return common.NewValidationError("name", MsgNameRequired)
	}
	if in.Email == "" {
		return common.NewValidationError("email", MsgEmailRequired)
	}

	if in.Email != account.Email {
		_, err := repo.GetByEmail(ctx, in.Email)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "account lookup failed", "error", err)
			return common.ErrInternal
		}
	}
	upd.Email = &in.Email

	if in.Phone == "" {
		return common.NewValidationError("phone", MsgPhoneRequired)
	}
	upd.Phone = &in.Phone

	if in.Password != in.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			s.logger.Error(ctx, "password hashing failed", "error", err)
			return common.ErrInternal
		}
		upd.PasswordHash = &hash
	}

	if _, err := repo.UpdateFields(ctx, account.ID, upd); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return common.ErrEmailTaken
		}
		s.logger.Error(ctx, "account update failed", "error", err, "account", account.ID)
		return common.ErrInternal
	}

	return nil
}

func (s *IdentityService) authResult(ctx context.Context, account *models.Account) (*AuthResult, error) {
	token, err := auth.IssueToken(account.ID, account.Name, s.jwtSecret)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrInternal
	}
	return &AuthResult{Token: token, AccountID: account.ID}, nil
}
