// stores.go
//
// Shared mock implementations of web.AuthService and web.DataService.
// Imported by test files across packages to avoid duplicate mock definitions.
package testutil

import (
	"context"
	"sync"

	"github.com/forgetmenot/leafboard/internal/cookie"
	"github.com/forgetmenot/leafboard/internal/supabase"
	"github.com/gofrs/uuid/v5"
)

// MockCookieName is the session cookie MockAuth writes on sign-in.
const MockCookieName = "sb-mock-auth-token"

// MockAuth implements web.AuthService for tests.
//
// Use *Err fields to inject errors for specific operations.
// Session is what GetSession returns; nil means signed out.
// Bind it to a request's cookie store through BindTo so sign-in and
// sign-out mutate cookies the way the real client does.
type MockAuth struct {
	// Error injection...zero value means no error
	SignInErr     error
	SignUpErr     error
	SignOutErr    error
	SetSessionErr error

	Session *supabase.Session

	// ConfirmationRequired makes SignUp return no session, mimicking a
	// project with email confirmation turned on.
	ConfirmationRequired bool

	cs supabase.CookieStore

	mu          sync.Mutex
	SignIns     []string // emails passed to SignInWithPassword
	SignUps     []string
	SignOuts    int
	SetSessions []*supabase.Session
}

// BindTo attaches the mock to a request's cookie store and returns it,
// matching the web.AuthFactory shape:
//
//	h.Auth = func(cs supabase.CookieStore) web.AuthService { return mock.BindTo(cs) }
func (m *MockAuth) BindTo(cs supabase.CookieStore) *MockAuth {
	m.mu.Lock()
	m.cs = cs
	m.mu.Unlock()
	return m
}

func (m *MockAuth) SignInWithPassword(_ context.Context, email, _ string) (*supabase.Session, error) {
	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignIns = append(m.SignIns, email)
	if m.Session == nil {
		m.Session = &supabase.Session{AccessToken: "mock-access", RefreshToken: "mock-refresh"}
	}
	if m.cs != nil {
		m.cs.Set(MockCookieName, m.Session.AccessToken, cookie.Options{Path: "/", HttpOnly: true})
	}
	return m.Session, nil
}

func (m *MockAuth) SignUp(_ context.Context, email, _ string) (*supabase.Session, error) {
	if m.SignUpErr != nil {
		return nil, m.SignUpErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignUps = append(m.SignUps, email)
	if m.ConfirmationRequired {
		return nil, nil
	}
	if m.Session == nil {
		m.Session = &supabase.Session{AccessToken: "mock-access", RefreshToken: "mock-refresh"}
	}
	if m.cs != nil {
		m.cs.Set(MockCookieName, m.Session.AccessToken, cookie.Options{Path: "/", HttpOnly: true})
	}
	return m.Session, nil
}

func (m *MockAuth) SignOut(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignOuts++
	if m.SignOutErr != nil {
		return m.SignOutErr
	}
	m.Session = nil
	if m.cs != nil {
		m.cs.Remove(MockCookieName, cookie.Options{Path: "/"})
	}
	return nil
}

func (m *MockAuth) GetSession() *supabase.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Session
}

func (m *MockAuth) SetSession(_ context.Context, sess *supabase.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetSessions = append(m.SetSessions, sess)
	if m.SetSessionErr != nil {
		return m.SetSessionErr
	}
	m.Session = sess
	if m.cs != nil {
		m.cs.Set(MockCookieName, sess.AccessToken, cookie.Options{Path: "/", HttpOnly: true})
	}
	return nil
}

// MockData implements web.DataService for tests.
// Always stateful...Devices, Pairs and Events are slices, like real rows.
// Use *Err fields to inject errors for specific operations.
type MockData struct {
	// Error injection...zero value means no error
	ListDevicesErr  error
	InsertDeviceErr error
	DeleteDeviceErr error
	GetRoleErr      error
	ListPairsErr    error
	PairExistsErr   error
	InsertPairErr   error
	DeletePairErr   error
	ListEventsErr   error

	Devices []supabase.Device
	Pairs   []supabase.Pair
	Events  []supabase.TouchEvent

	mu         sync.Mutex
	LastTokens []string // bearer tokens observed across calls
}

// NewMockData returns a MockData seeded with the given devices.
func NewMockData(devices ...supabase.Device) *MockData {
	return &MockData{Devices: devices}
}

func (m *MockData) saw(token string) {
	m.LastTokens = append(m.LastTokens, token)
}

func (m *MockData) ListDevices(_ context.Context, token string) ([]supabase.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.ListDevicesErr != nil {
		return nil, m.ListDevicesErr
	}
	out := make([]supabase.Device, len(m.Devices))
	copy(out, m.Devices)
	return out, nil
}

func (m *MockData) InsertDevice(_ context.Context, token string, dev supabase.NewDevice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.InsertDeviceErr != nil {
		return m.InsertDeviceErr
	}
	m.Devices = append(m.Devices, supabase.Device{
		ID:     uuid.Must(uuid.NewV4()).String(),
		Name:   dev.Name,
		Role:   dev.Role,
		Secret: dev.Secret,
	})
	return nil
}

func (m *MockData) DeleteDevice(_ context.Context, token, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.DeleteDeviceErr != nil {
		return m.DeleteDeviceErr
	}
	kept := m.Devices[:0]
	for _, d := range m.Devices {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	m.Devices = kept
	return nil
}

func (m *MockData) GetDeviceRole(_ context.Context, token, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.GetRoleErr != nil {
		return "", m.GetRoleErr
	}
	for _, d := range m.Devices {
		if d.ID == id {
			return d.Role, nil
		}
	}
	return "", supabase.ErrNotFound
}

func (m *MockData) ListPairs(_ context.Context, token string) ([]supabase.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.ListPairsErr != nil {
		return nil, m.ListPairsErr
	}
	out := make([]supabase.Pair, len(m.Pairs))
	copy(out, m.Pairs)
	return out, nil
}

func (m *MockData) PairExists(_ context.Context, token, senderID, receiverID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.PairExistsErr != nil {
		return false, m.PairExistsErr
	}
	for _, p := range m.Pairs {
		if p.SenderID == senderID && p.ReceiverID == receiverID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockData) InsertPair(_ context.Context, token, senderID, receiverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.InsertPairErr != nil {
		return m.InsertPairErr
	}
	m.Pairs = append(m.Pairs, supabase.Pair{
		ID:         uuid.Must(uuid.NewV4()).String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
	})
	return nil
}

func (m *MockData) DeletePair(_ context.Context, token, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.DeletePairErr != nil {
		return m.DeletePairErr
	}
	kept := m.Pairs[:0]
	for _, p := range m.Pairs {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.Pairs = kept
	return nil
}

func (m *MockData) ListEvents(_ context.Context, token string, limit int) ([]supabase.TouchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saw(token)
	if m.ListEventsErr != nil {
		return nil, m.ListEventsErr
	}
	events := m.Events
	if len(events) > limit {
		events = events[:limit]
	}
	out := make([]supabase.TouchEvent, len(events))
	copy(out, events)
	return out, nil
}
