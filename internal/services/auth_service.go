package services

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/logging"
	"todomaster/internal/repository/sqlite"
	"todomaster/internal/validation"
)

const (
	SignUpSuccessMessage      = "Signed up successfully."
	SignInSuccessMessage      = "Login successful!"
	InvalidCredentialsMessage = "Invalid email or password"
	DuplicateEmailMessage     = "An account with this email already exists"
	FallbackFailureMessage    = "Something went wrong"

	DefaultSessionTTL  = 7 * 24 * time.Hour
	DefaultCallbackURL = "/"
	socialSignInPath   = "sign-in/social"
)

// AuthStore is the part of the local store the auth facade needs
type AuthStore interface {
	CreateUser(ctx context.Context, user *sqlite.User) error
	GetUser(ctx context.Context, id string) (*sqlite.User, error)
	GetUserByEmail(ctx context.Context, email string) (*sqlite.User, error)
	CreateSession(ctx context.Context, session *sqlite.Session) error
	GetSession(ctx context.Context, token string) (*sqlite.Session, error)
	DeleteSession(ctx context.Context, token string) error
	ListSessions(ctx context.Context, userID string) ([]*sqlite.Session, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AuthOptions tunes an AuthService
type AuthOptions struct {
	SessionTTL    time.Duration
	Providers     []string
	SocialBaseURL string
	CallbackURL   string
	BcryptCost    int
	Credentials   *validation.CredentialsValidator
	Logger        *log.Logger
	Now           func() time.Time
	NewID         func() string
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	store         AuthStore
	tokens        TokenStore
	opts          AuthOptions
	userMapper    *domain.UserMapper
	sessionMapper *domain.SessionMapper
}

// NewAuthService creates an auth facade over store. tokens may be nil for
// surfaces that carry the session token themselves.
func NewAuthService(store AuthStore, tokens TokenStore, opts AuthOptions) AuthService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if len(opts.Providers) == 0 {
		opts.Providers = []string{"google"}
	}
	if opts.CallbackURL == "" {
		opts.CallbackURL = DefaultCallbackURL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Credentials == nil {
		opts.Credentials = validation.NewCredentialsValidator()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &authServiceImpl{
		store:         store,
		tokens:        tokens,
		opts:          opts,
		userMapper:    domain.NewUserMapper(),
		sessionMapper: domain.NewSessionMapper(),
	}
}

// SignUp registers an account and signs it in
func (s *authServiceImpl) SignUp(ctx context.Context, email, password, name string) domain.AuthResult {
	session, err := s.Register(ctx, email, password, name)
	if err != nil {
		return FailureResult(err)
	}
	if err := s.saveToken(ctx, session.Token); err != nil {
		return FailureResult(err)
	}
	return domain.AuthResult{Success: true, Message: SignUpSuccessMessage}
}

// SignIn checks the credentials and stores the new session token
func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) domain.AuthResult {
	session, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return FailureResult(err)
	}
	if err := s.saveToken(ctx, session.Token); err != nil {
		return FailureResult(err)
	}
	return domain.AuthResult{Success: true, Message: SignInSuccessMessage}
}

// Session resolves the stored token to the signed-in user
func (s *authServiceImpl) Session(ctx context.Context) (*domain.SessionState, error) {
	if s.tokens == nil {
		return &domain.SessionState{}, nil
	}
	token, found, err := s.tokens.Load(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load session token", err)
	}
	if !found {
		return &domain.SessionState{}, nil
	}

	state, err := s.SessionForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !state.SignedIn() {
		// The token no longer resolves; forget it
		if err := s.tokens.Clear(ctx); err != nil {
			s.opts.Logger.Warn("clear stale session token failed", "err", err)
		}
	}
	return state, nil
}

// SignOut revokes the stored session and forgets its token
func (s *authServiceImpl) SignOut(ctx context.Context) error {
	if s.tokens == nil {
		return nil
	}
	token, found, err := s.tokens.Load(ctx)
	if err != nil {
		return errors.NewDatabaseError("load session token", err)
	}
	if found {
		if err := s.Revoke(ctx, token); err != nil {
			return err
		}
	}
	return s.tokens.Clear(ctx)
}

// SignOutEverywhere revokes every session of the signed-in user, including
// the stored one, and returns how many were revoked.
func (s *authServiceImpl) SignOutEverywhere(ctx context.Context) (int, error) {
	state, err := s.Session(ctx)
	if err != nil {
		return 0, err
	}
	if !state.SignedIn() {
		return 0, errors.NewUnauthenticatedError("not signed in")
	}

	sessions, err := s.store.ListSessions(ctx, state.User.ID)
	if err != nil {
		return 0, err
	}
	for _, session := range sessions {
		if err := s.Revoke(ctx, session.Token); err != nil {
			return 0, err
		}
	}
	s.opts.Logger.Info("signed out everywhere", "user", state.User.ID, "sessions", len(sessions))
	return len(sessions), s.tokens.Clear(ctx)
}

// Register creates a user with a bcrypt password hash and opens a session for it
func (s *authServiceImpl) Register(ctx context.Context, email, password, name string) (*domain.Session, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := s.opts.Credentials.ValidateSignUp(email, password, name); err != nil {
		return nil, validationFailure(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errors.NewInvalidInputError("password", nil, "password is too long")
		}
		return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "hash password")
	}

	user := domain.User{
		ID:        s.opts.NewID(),
		Email:     email,
		Name:      name,
		CreatedAt: s.opts.Now().UTC().Truncate(time.Second),
	}
	row := s.userMapper.ToDatabase(user, string(hash))
	if err := s.store.CreateUser(ctx, &row); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeConflict) {
			conflict := errors.NewConflictError("user", email)
			conflict.Message = DuplicateEmailMessage
			return nil, conflict
		}
		s.opts.Logger.Error("create user failed", "email", email, "err", err)
		return nil, err
	}

	s.opts.Logger.Info("user registered", "user", user.ID)
	return s.openSession(ctx, user.ID)
}

// Authenticate checks the credentials and opens a session
func (s *authServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if err := s.opts.Credentials.ValidateSignIn(email, password); err != nil {
		return nil, validationFailure(err)
	}

	row, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, errors.NewUnauthenticatedError(InvalidCredentialsMessage)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		s.opts.Logger.Debug("password mismatch", "user", row.ID)
		return nil, errors.NewUnauthenticatedError(InvalidCredentialsMessage)
	}

	return s.openSession(ctx, row.ID)
}

// SessionForToken resolves a token. Unknown and expired tokens yield an empty state.
func (s *authServiceImpl) SessionForToken(ctx context.Context, token string) (*domain.SessionState, error) {
	if strings.TrimSpace(token) == "" {
		return &domain.SessionState{}, nil
	}

	row, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return &domain.SessionState{}, nil
		}
		return nil, err
	}

	session := s.sessionMapper.FromDatabase(*row)
	if session.IsExpired(s.opts.Now()) {
		if err := s.store.DeleteSession(ctx, token); err != nil && !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			s.opts.Logger.Warn("delete expired session failed", "err", err)
		}
		return &domain.SessionState{}, nil
	}

	userRow, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return &domain.SessionState{}, nil
		}
		return nil, err
	}

	user := s.userMapper.FromDatabase(*userRow)
	return &domain.SessionState{User: &user}, nil
}

// Revoke deletes a session. Unknown tokens are not an error.
func (s *authServiceImpl) Revoke(ctx context.Context, token string) error {
	if err := s.store.DeleteSession(ctx, token); err != nil && !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return err
	}
	return nil
}

// SocialSignIn returns the external authorization URL for a configured provider
func (s *authServiceImpl) SocialSignIn(ctx context.Context, provider, callbackURL string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = strings.ToLower(s.opts.Providers[0])
	}
	if !s.hasProvider(provider) {
		return "", errors.NewInvalidInputError("provider", provider, "provider is not configured")
	}
	if callbackURL == "" {
		callbackURL = s.opts.CallbackURL
	}
	if s.opts.SocialBaseURL == "" {
		return "", errors.NewInvalidInputError("social_base_url", "", "social sign-in is not configured")
	}

	target, err := url.JoinPath(s.opts.SocialBaseURL, socialSignInPath)
	if err != nil {
		return "", errors.NewInvalidInputError("social_base_url", s.opts.SocialBaseURL, err.Error())
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", errors.NewInvalidInputError("social_base_url", s.opts.SocialBaseURL, err.Error())
	}
	q := u.Query()
	q.Set("provider", provider)
	q.Set("callbackURL", callbackURL)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// PurgeExpiredSessions deletes every expired session
func (s *authServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.opts.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.opts.Logger.Debug("purged expired sessions", "count", n)
	}
	return n, nil
}

func (s *authServiceImpl) openSession(ctx context.Context, userID string) (*domain.Session, error) {
	session := domain.Session{
		Token:     s.opts.NewID(),
		UserID:    userID,
		ExpiresAt: s.opts.Now().Add(s.opts.SessionTTL).UTC().Truncate(time.Second),
	}
	row := s.sessionMapper.ToDatabase(session)
	if err := s.store.CreateSession(ctx, &row); err != nil {
		s.opts.Logger.Error("create session failed", "user", userID, "err", err)
		return nil, err
	}
	return &session, nil
}

func (s *authServiceImpl) saveToken(ctx context.Context, token string) error {
	if s.tokens == nil {
		return nil
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return errors.NewDatabaseError("save session token", err)
	}
	return nil
}

func (s *authServiceImpl) hasProvider(name string) bool {
	for _, p := range s.opts.Providers {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FailureResult turns an error into a failed AuthResult with a user-facing message
func FailureResult(err error) domain.AuthResult {
	if ve, ok := validation.AsValidationError(err); ok {
		return domain.AuthResult{Message: ve.GetUserFriendlyMessage()}
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return domain.AuthResult{Message: errors.GetUserMessage(appErr)}
	}
	return domain.AuthResult{Message: FallbackFailureMessage}
}
