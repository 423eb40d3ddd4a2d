package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/learnhub/internal/model"
)

// DefaultAvatar is assigned to new identities.
const DefaultAvatar = "https://i.pravatar.cc/150?img=10"

// identityNamespace scopes the stable ids derived from login emails.
var identityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://learnhub.local/identity"))

// IdentityStore simulates sign-in. Credentials are never checked: any non-empty
// email and password sign in after the configured delay.
type IdentityStore struct {
	mu    sync.Mutex
	w     Writer
	logf  Logf
	delay time.Duration
	newID func() string

	user          *model.User
	authenticated bool
	loading       bool
}

type authRecord struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

// ProfileUpdate carries the identity fields to change; nil fields are kept.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Avatar *string
}

// NewIdentityStore constructs a signed-out IdentityStore. A nil newID uses random UUIDs.
func NewIdentityStore(w Writer, delay time.Duration, newID func() string, logf Logf) *IdentityStore {
	if newID == nil {
		newID = uuid.NewString
	}
	return &IdentityStore{w: w, logf: logf, delay: delay, newID: newID}
}

// Login signs in as email after the simulated delay. The display name is the part of
// the email before "@". Blank fields fail with a ValidationError before any delay.
func (s *IdentityStore) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := validateInput(loginInput{Email: email, Password: strings.TrimSpace(password)}); err != nil {
		return err
	}
	name, _, _ := strings.Cut(email, "@")
	user := model.User{
		ID:     uuid.NewSHA1(identityNamespace, []byte(strings.ToLower(email))).String(),
		Email:  email,
		Name:   name,
		Avatar: DefaultAvatar,
	}
	return s.signIn(ctx, user)
}

// Register creates a new identity with a fresh id after the simulated delay.
func (s *IdentityStore) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateInput(registerInput{Name: name, Email: email, Password: strings.TrimSpace(password)}); err != nil {
		return err
	}
	user := model.User{
		ID:     s.newID(),
		Email:  email,
		Name:   name,
		Avatar: DefaultAvatar,
	}
	return s.signIn(ctx, user)
}

func (s *IdentityStore) signIn(ctx context.Context, user model.User) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.authenticated = true
	s.saveLocked()
	return nil
}

func (s *IdentityStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Logout clears the identity. Enrollment and progress live in other stores and stay.
func (s *IdentityStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.saveLocked()
}

// UpdateProfile applies a partial identity update. It does nothing while signed out.
func (s *IdentityStore) UpdateProfile(update ProfileUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	u := *s.user
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	s.user = &u
	s.saveLocked()
}

// User returns the signed-in identity.
func (s *IdentityStore) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether someone is signed in.
func (s *IdentityStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Loading reports whether a sign-in is in flight.
func (s *IdentityStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *IdentityStore) saveLocked() {
	putJSON(s.w, KeyAuth, authRecord{User: s.user, IsAuthenticated: s.authenticated}, s.logf)
}

func (s *IdentityStore) restore(raw []byte) error {
	var rec authRecord
	if err := decodeRecord(KeyAuth, raw, &rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = rec.User
	s.authenticated = rec.IsAuthenticated && rec.User != nil
	return nil
}
