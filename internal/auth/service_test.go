package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/toolshed/internal/model"
	"github.com/hitoshi/toolshed/internal/security"
)

// --- モック ---

type mockAccountRepo struct {
	findByIDFn           func(ctx context.Context, id string) (*model.Account, error)
	findByEmailFn        func(ctx context.Context, email string) (*model.Account, error)
	createWithProfileFn  func(ctx context.Context, account *model.Account, profile *model.Profile) error
	updatePasswordHashFn func(ctx context.Context, id, passwordHash string) error
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockAccountRepo) CreateWithProfile(ctx context.Context, account *model.Account, profile *model.Profile) error {
	if m.createWithProfileFn != nil {
		return m.createWithProfileFn(ctx, account, profile)
	}
	return nil
}
func (m *mockAccountRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	if m.updatePasswordHashFn != nil {
		return m.updatePasswordHashFn(ctx, id, passwordHash)
	}
	return nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockResetRepo struct {
	createFn        func(ctx context.Context, token *model.PasswordResetToken) error
	findValidByIDFn func(ctx context.Context, id string) (*model.PasswordResetToken, error)
	markUsedFn      func(ctx context.Context, id string) error
}

func (m *mockResetRepo) Create(ctx context.Context, token *model.PasswordResetToken) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	return nil
}
func (m *mockResetRepo) FindValidByID(ctx context.Context, id string) (*model.PasswordResetToken, error) {
	if m.findValidByIDFn != nil {
		return m.findValidByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockResetRepo) MarkUsed(ctx context.Context, id string) error {
	if m.markUsedFn != nil {
		return m.markUsedFn(ctx, id)
	}
	return nil
}

// fakeHasher はテスト用の軽量ハッシャー。bcryptのコストを避ける。
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func newTestService(accountRepo *mockAccountRepo, sessionRepo *mockSessionRepo, resetRepo *mockResetRepo) *Service {
	return NewService(
		accountRepo,
		sessionRepo,
		resetRepo,
		fakeHasher{},
		security.NewTextSanitizer(),
		ServiceConfig{SessionMaxAge: 86400},
	)
}

func validSignUp() SignUpInput {
	return SignUpInput{
		Email:    "hanako@example.com",
		Password: "correct-horse",
		FullName: "Hanako Suzuki",
		Location: "Setagaya, Tokyo",
	}
}

func assertErrCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != wantCode {
		t.Fatalf("error = %v, want code %s", err, wantCode)
	}
}

// --- テスト ---

// TestService_SignUp_CreatesAccountAndProfile はアカウントとプロフィールが
// 同一IDで作成されることを検証する。
func TestService_SignUp_CreatesAccountAndProfile(t *testing.T) {
	var savedAccount *model.Account
	var savedProfile *model.Profile
	accountRepo := &mockAccountRepo{
		createWithProfileFn: func(ctx context.Context, account *model.Account, profile *model.Profile) error {
			savedAccount = account
			savedProfile = profile
			return nil
		},
	}

	svc := newTestService(accountRepo, &mockSessionRepo{}, &mockResetRepo{})

	session, err := svc.SignUp(context.Background(), validSignUp())
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if savedAccount == nil || savedProfile == nil {
		t.Fatal("expected account and profile to be created")
	}
	if savedProfile.ID != savedAccount.ID {
		t.Errorf("Profile.ID = %s, want Account.ID %s", savedProfile.ID, savedAccount.ID)
	}
	if savedAccount.PasswordHash != "hashed:correct-horse" {
		t.Errorf("PasswordHash = %s, want hashed value", savedAccount.PasswordHash)
	}
	if session.UserID != savedAccount.ID {
		t.Errorf("Session.UserID = %s, want %s", session.UserID, savedAccount.ID)
	}
}

// TestService_SignUp_NormalizesEmail はメールアドレスの正規化を検証する。
func TestService_SignUp_NormalizesEmail(t *testing.T) {
	var savedAccount *model.Account
	accountRepo := &mockAccountRepo{
		createWithProfileFn: func(ctx context.Context, account *model.Account, profile *model.Profile) error {
			savedAccount = account
			return nil
		},
	}

	svc := newTestService(accountRepo, &mockSessionRepo{}, &mockResetRepo{})

	input := validSignUp()
	input.Email = "  Hanako@Example.COM "
	if _, err := svc.SignUp(context.Background(), input); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if savedAccount.Email != "hanako@example.com" {
		t.Errorf("Email = %q, want normalized", savedAccount.Email)
	}
}

// TestService_SignUp_DuplicateEmail は重複メールアドレスの拒否を検証する。
func TestService_SignUp_DuplicateEmail(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
			return &model.Account{ID: "existing", Email: email}, nil
		},
	}

	svc := newTestService(accountRepo, &mockSessionRepo{}, &mockResetRepo{})

	_, err := svc.SignUp(context.Background(), validSignUp())
	assertErrCode(t, err, model.ErrCodeEmailAlreadyRegistered)
}

// TestService_SignUp_Validation は入力検証を検証する。
func TestService_SignUp_Validation(t *testing.T) {
	svc := newTestService(&mockAccountRepo{}, &mockSessionRepo{}, &mockResetRepo{})

	tests := []struct {
		name     string
		mutate   func(*SignUpInput)
		wantCode string
	}{
		{"メールなし", func(i *SignUpInput) { i.Email = "" }, model.ErrCodeMissingField},
		{"パスワードなし", func(i *SignUpInput) { i.Password = "" }, model.ErrCodeMissingField},
		{"パスワードが短い", func(i *SignUpInput) { i.Password = "short" }, model.ErrCodeWeakPassword},
		{"氏名なし", func(i *SignUpInput) { i.FullName = "" }, model.ErrCodeMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSignUp()
			tt.mutate(&input)

			_, err := svc.SignUp(context.Background(), input)
			assertErrCode(t, err, tt.wantCode)
		})
	}
}

// TestService_SignIn_Success はログインの正常系を検証する。
func TestService_SignIn_Success(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
			return &model.Account{ID: "user-1", Email: email, PasswordHash: "hashed:correct-horse"}, nil
		},
	}
	var created *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			created = session
			return nil
		},
	}

	svc := newTestService(accountRepo, sessionRepo, &mockResetRepo{})

	session, err := svc.SignIn(context.Background(), "hanako@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if session.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", session.UserID)
	}
	if created == nil {
		t.Fatal("expected session to be persisted")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(session.ID))
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session expires in the past")
	}
}

// TestService_SignIn_InvalidCredentials は未登録メールと照合失敗が
// 同一エラーになることを検証する。
func TestService_SignIn_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name    string
		account *model.Account
	}{
		{"未登録メール", nil},
		{"パスワード不一致", &model.Account{ID: "user-1", PasswordHash: "hashed:other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountRepo := &mockAccountRepo{
				findByEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
					return tt.account, nil
				},
			}
			svc := newTestService(accountRepo, &mockSessionRepo{}, &mockResetRepo{})

			_, err := svc.SignIn(context.Background(), "hanako@example.com", "correct-horse")
			assertErrCode(t, err, model.ErrCodeInvalidCredentials)
		})
	}
}

// TestService_SignOut はセッション破棄を検証する。
func TestService_SignOut(t *testing.T) {
	deletedID := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	svc := newTestService(&mockAccountRepo{}, sessionRepo, &mockResetRepo{})

	if err := svc.SignOut(context.Background(), "sess-1"); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if deletedID != "sess-1" {
		t.Errorf("deleted session = %s, want sess-1", deletedID)
	}
}

// TestService_GetCurrentAccount はセッションからのアカウント解決を検証する。
func TestService_GetCurrentAccount(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Account, error) {
			return &model.Account{ID: id, Email: "hanako@example.com"}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id != "sess-1" {
				return nil, nil
			}
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}

	svc := newTestService(accountRepo, sessionRepo, &mockResetRepo{})

	account, err := svc.GetCurrentAccount(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetCurrentAccount returned error: %v", err)
	}
	if account == nil || account.ID != "user-1" {
		t.Errorf("account = %+v, want user-1", account)
	}

	// 無効なセッションはエラーではなくnil
	account, err = svc.GetCurrentAccount(context.Background(), "expired")
	if err != nil {
		t.Fatalf("GetCurrentAccount returned error: %v", err)
	}
	if account != nil {
		t.Errorf("expected nil account for unknown session, got %+v", account)
	}
}

// TestService_RequestPasswordReset_UnknownEmail は未登録メールで
// エラーもトークンも返さないことを検証する。
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	svc := newTestService(&mockAccountRepo{}, &mockSessionRepo{}, &mockResetRepo{})

	token, err := svc.RequestPasswordReset(context.Background(), "unknown@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if token != nil {
		t.Errorf("expected nil token for unknown email, got %+v", token)
	}
}

// TestService_RequestPasswordReset_IssuesToken はトークン発行を検証する。
func TestService_RequestPasswordReset_IssuesToken(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
			return &model.Account{ID: "user-1", Email: email}, nil
		},
	}
	var saved *model.PasswordResetToken
	resetRepo := &mockResetRepo{
		createFn: func(ctx context.Context, token *model.PasswordResetToken) error {
			saved = token
			return nil
		},
	}

	svc := newTestService(accountRepo, &mockSessionRepo{}, resetRepo)

	token, err := svc.RequestPasswordReset(context.Background(), "hanako@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if token == nil || saved == nil {
		t.Fatal("expected token to be issued and persisted")
	}
	if token.AccountID != "user-1" {
		t.Errorf("AccountID = %s, want user-1", token.AccountID)
	}
	if !token.ExpiresAt.After(time.Now().Add(50 * time.Minute)) {
		t.Error("token expires too soon")
	}
}

// TestService_ResetPassword_Success はパスワード更新、トークン無効化、
// 既存セッション破棄を検証する。
func TestService_ResetPassword_Success(t *testing.T) {
	updatedHash := ""
	accountRepo := &mockAccountRepo{
		updatePasswordHashFn: func(ctx context.Context, id, passwordHash string) error {
			updatedHash = passwordHash
			return nil
		},
	}
	sessionsDeleted := false
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			sessionsDeleted = true
			return nil
		},
	}
	markedUsed := false
	resetRepo := &mockResetRepo{
		findValidByIDFn: func(ctx context.Context, id string) (*model.PasswordResetToken, error) {
			return &model.PasswordResetToken{ID: id, AccountID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		markUsedFn: func(ctx context.Context, id string) error {
			markedUsed = true
			return nil
		},
	}

	svc := newTestService(accountRepo, sessionRepo, resetRepo)

	if err := svc.ResetPassword(context.Background(), "token-1", "new-password"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if updatedHash != "hashed:new-password" {
		t.Errorf("updated hash = %s, want hashed:new-password", updatedHash)
	}
	if !markedUsed {
		t.Error("expected token to be marked used")
	}
	if !sessionsDeleted {
		t.Error("expected existing sessions to be deleted")
	}
}

// TestService_ResetPassword_InvalidToken は無効トークンの拒否を検証する。
func TestService_ResetPassword_InvalidToken(t *testing.T) {
	svc := newTestService(&mockAccountRepo{}, &mockSessionRepo{}, &mockResetRepo{})

	err := svc.ResetPassword(context.Background(), "expired-or-used", "new-password")
	assertErrCode(t, err, model.ErrCodeInvalidResetToken)
}

// TestBcryptHasher はbcrypt実装のハッシュと照合を検証する。
func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash equals plaintext")
	}
	if err := hasher.Compare(hash, "correct-horse"); err != nil {
		t.Errorf("Compare with correct password failed: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Error("Compare with wrong password succeeded")
	}
}
