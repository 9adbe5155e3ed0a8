// Package auth はメールアドレスとパスワードによる認証、セッション管理、
// パスワード再設定を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/toolshed/internal/model"
	"github.com/hitoshi/toolshed/internal/repository"
	"github.com/hitoshi/toolshed/internal/security"
)

// resetTokenTTL はパスワード再設定トークンの有効期間。
const resetTokenTTL = time.Hour

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// SignUpInput は新規登録の入力。
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Location string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	accountRepo repository.AccountRepository
	sessionRepo repository.SessionRepository
	resetRepo   repository.PasswordResetTokenRepository
	hasher      PasswordHasher
	sanitizer   security.TextSanitizerService
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	resetRepo repository.PasswordResetTokenRepository,
	hasher PasswordHasher,
	sanitizer security.TextSanitizerService,
	config ServiceConfig,
) *Service {
	return &Service{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		hasher:      hasher,
		sanitizer:   sanitizer,
		config:      config,
	}
}

// SignUp は新規アカウントを登録し、セッションを発行する。
// アカウントとプロフィールは同一トランザクションで作成され、
// Profile.IDはAccount.IDと一致する。
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*model.Session, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, model.NewMissingFieldError("email")
	}
	if input.Password == "" {
		return nil, model.NewMissingFieldError("password")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, model.NewWeakPasswordError(err.Error())
	}

	fullName := s.sanitizer.Sanitize(input.FullName)
	if fullName == "" {
		return nil, model.NewMissingFieldError("full_name")
	}

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("アカウントの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyRegisteredError()
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &model.Profile{
		ID:        account.ID,
		FullName:  fullName,
		Location:  s.sanitizer.Sanitize(input.Location),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accountRepo.CreateWithProfile(ctx, account, profile); err != nil {
		return nil, fmt.Errorf("アカウントの作成に失敗しました: %w", err)
	}

	slog.Info("account created",
		slog.String("account_id", account.ID),
		slog.String("email", email),
	)

	return s.createSession(ctx, account.ID)
}

// SignIn はメールアドレスとパスワードでログインし、セッションを発行する。
// アカウントの存在有無を漏らさないよう、未登録と照合失敗は同一エラーで返す。
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("アカウントの検索に失敗しました: %w", err)
	}
	if account == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	slog.Info("user signed in", slog.String("account_id", account.ID))

	return s.createSession(ctx, account.ID)
}

// SignOut はセッションを破棄する。
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("セッションIDが必要です")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	slog.Info("user signed out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentAccount はセッションから現在のアカウントを取得する。
// セッションが無効・期限切れの場合はnilを返す。
func (s *Service) GetCurrentAccount(ctx context.Context, sessionID string) (*model.Account, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	account, err := s.accountRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	return account, nil
}

// RequestPasswordReset はパスワード再設定トークンを発行する。
// メールアドレスの存在有無を漏らさないよう、未登録の場合もエラーにせず
// nilトークンを返す。
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*model.PasswordResetToken, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, model.NewMissingFieldError("email")
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("アカウントの検索に失敗しました: %w", err)
	}
	if account == nil {
		slog.Info("password reset requested for unknown email")
		return nil, nil
	}

	tokenID, err := generateTokenID()
	if err != nil {
		return nil, fmt.Errorf("トークンの生成に失敗しました: %w", err)
	}

	token := &model.PasswordResetToken{
		ID:        tokenID,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}

	if err := s.resetRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("トークンの保存に失敗しました: %w", err)
	}

	slog.Info("password reset token issued", slog.String("account_id", account.ID))

	return token, nil
}

// ResetPassword はトークンを検証し、パスワードを更新する。
// トークンは一度使うと無効になり、更新後は既存セッションを全て破棄する。
func (s *Service) ResetPassword(ctx context.Context, tokenID, newPassword string) error {
	if tokenID == "" {
		return model.NewInvalidResetTokenError()
	}
	if newPassword == "" {
		return model.NewMissingFieldError("password")
	}
	if err := validatePassword(newPassword); err != nil {
		return model.NewWeakPasswordError(err.Error())
	}

	token, err := s.resetRepo.FindValidByID(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("トークンの取得に失敗しました: %w", err)
	}
	if token == nil {
		return model.NewInvalidResetTokenError()
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.accountRepo.UpdatePasswordHash(ctx, token.AccountID, passwordHash); err != nil {
		return fmt.Errorf("パスワードの更新に失敗しました: %w", err)
	}
	if err := s.resetRepo.MarkUsed(ctx, tokenID); err != nil {
		return fmt.Errorf("トークンの無効化に失敗しました: %w", err)
	}
	if err := s.sessionRepo.DeleteByUserID(ctx, token.AccountID); err != nil {
		return fmt.Errorf("既存セッションの破棄に失敗しました: %w", err)
	}

	slog.Info("password reset completed", slog.String("account_id", token.AccountID))
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateTokenID()
	if err != nil {
		return nil, fmt.Errorf("セッションIDの生成に失敗しました: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}

	return session, nil
}

// generateTokenID は暗号的に安全なランダムIDを生成する。
// セッションIDとパスワード再設定トークンの両方で使う。
func generateTokenID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// normalizeEmail はメールアドレスを比較可能な形に正規化する。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
