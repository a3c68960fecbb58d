package credentials

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/msoohome/storefront/internal/domain"
)

// MinSecretLength is the smallest accepted sign-in secret.
const MinSecretLength = 6

var (
	// ErrSecretTooShort: the secret is under MinSecretLength characters.
	ErrSecretTooShort = errors.New("secret must be at least 6 characters")
	// ErrInvalidCredentials: unknown email or wrong secret. The two cases
	// are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or secret")
	// ErrEmailTaken: an account already exists under the email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrSetupSecretInvalid: an allow-listed email presented the wrong
	// provisioning secret.
	ErrSetupSecretInvalid = errors.New("admin setup secret is invalid")
	// ErrSessionNotFound: the token resolves to no active session.
	ErrSessionNotFound = errors.New("session not found")
)

// Config carries the admin provisioning settings.
type Config struct {
	// AdminEmails is the allow-list of emails that may register as
	// administrators.
	AdminEmails []string
	// AdminSetupSecret must be presented by an allow-listed email to be
	// granted the admin role.
	AdminSetupSecret string
}

// Session is a live sign-in.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

// SessionListener is notified after every session change. user is nil on
// sign-out.
type SessionListener func(token string, user *domain.User)

type account struct {
	user       domain.User
	secretHash []byte
}

// Service is the local credential store: bcrypt-hashed secrets, opaque
// session tokens, and a user record written through to the user repository
// on sign-up.
type Service struct {
	users  domain.UserRepository
	cfg    Config
	logger *log.Entry

	mu        sync.Mutex
	accounts  map[string]*account // keyed by normalized email
	sessions  map[string]string   // token -> user ID
	listeners []SessionListener
}

func NewService(users domain.UserRepository, cfg Config, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "credentials")
	}
	return &Service{
		users:    users,
		cfg:      cfg,
		logger:   logger,
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
	}
}

// OnSessionChange registers a listener invoked after sign-in and sign-out.
func (s *Service) OnSessionChange(fn SessionListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SignUp registers a new account and opens a session for it. Allow-listed
// emails become administrators if and only if they present the correct
// setup secret; any other email registers as a customer and the setup
// secret is ignored.
func (s *Service) SignUp(ctx context.Context, name, email, phone, secret, setupSecret string) (domain.User, Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, Session{}, domain.ErrUserEmailRequired
	}
	if strings.TrimSpace(name) == "" {
		return domain.User{}, Session{}, domain.ErrUserNameRequired
	}
	if len(secret) < MinSecretLength {
		return domain.User{}, Session{}, ErrSecretTooShort
	}

	role := domain.RoleCustomer
	if s.isAdminEmail(email) {
		if setupSecret != s.cfg.AdminSetupSecret || s.cfg.AdminSetupSecret == "" {
			return domain.User{}, Session{}, ErrSetupSecretInvalid
		}
		role = domain.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, Session{}, err
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		return domain.User{}, Session{}, ErrEmailTaken
	}
	s.accounts[email] = &account{user: user, secretHash: hash}
	s.mu.Unlock()

	if err := s.users.Create(ctx, user); err != nil {
		// Roll the account back so a later sign-up can succeed.
		s.mu.Lock()
		delete(s.accounts, email)
		s.mu.Unlock()
		return domain.User{}, Session{}, err
	}

	session := s.openSession(user)
	s.logger.WithFields(log.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("account registered")
	return user, session, nil
}

// SignIn verifies the secret and opens a session.
func (s *Service) SignIn(ctx context.Context, email, secret string) (domain.User, Session, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	acc, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok {
		return domain.User{}, Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.secretHash, []byte(secret)); err != nil {
		return domain.User{}, Session{}, ErrInvalidCredentials
	}

	session := s.openSession(acc.user)
	s.logger.WithField("user_id", acc.user.ID).Info("signed in")
	return acc.user, session, nil
}

// SignOut closes a session. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, token string) {
	s.mu.Lock()
	_, existed := s.sessions[token]
	delete(s.sessions, token)
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	if !existed {
		return
	}
	for _, fn := range listeners {
		fn(token, nil)
	}
	s.logger.Info("signed out")
}

// Resolve returns the user behind an active session token.
func (s *Service) Resolve(ctx context.Context, token string) (domain.User, error) {
	s.mu.Lock()
	userID, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return domain.User{}, ErrSessionNotFound
	}
	return s.users.Get(ctx, userID)
}

// ChangeSecret replaces the account secret after verifying the old one.
// Other sessions of the account stay valid.
func (s *Service) ChangeSecret(ctx context.Context, token, oldSecret, newSecret string) error {
	if len(newSecret) < MinSecretLength {
		return ErrSecretTooShort
	}

	user, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	acc, ok := s.accounts[user.Email]
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.secretHash, []byte(oldSecret)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	acc.secretHash = hash
	s.mu.Unlock()

	s.logger.WithField("user_id", user.ID).Info("secret changed")
	return nil
}

func (s *Service) openSession(user domain.User) Session {
	session := Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = user.ID
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		u := user
		fn(session.Token, &u)
	}
	return session
}

func (s *Service) isAdminEmail(email string) bool {
	for _, allowed := range s.cfg.AdminEmails {
		if normalizeEmail(allowed) == email {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
