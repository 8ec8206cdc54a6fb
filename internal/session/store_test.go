package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"annfsu/app/internal/api"
	"annfsu/app/internal/avatar"
	"annfsu/app/internal/config"
	"annfsu/app/internal/devserver"
	"annfsu/app/internal/models"
	"annfsu/app/internal/vault"
)

type fakeBackend struct {
	loginResult api.AuthResult
	loginErr    error

	meResult models.UserProfile
	meErr    error
	meCalls  int

	applyResult models.UserProfile

	token string
}

func (f *fakeBackend) Login(ctx context.Context, identifier, password string) (api.AuthResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) Signup(ctx context.Context, input api.SignupInput) (api.AuthResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) RequestOTP(ctx context.Context, phone string) (api.OTPInfo, error) {
	return api.OTPInfo{Message: "sent", ExpiresInMinutes: 10}, nil
}

func (f *fakeBackend) VerifyOTP(ctx context.Context, phone, otp string) (api.AuthResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) Me(ctx context.Context) (models.UserProfile, error) {
	f.meCalls++
	return f.meResult, f.meErr
}

func (f *fakeBackend) Apply(ctx context.Context) (models.UserProfile, error) {
	return f.applyResult, nil
}

func (f *fakeBackend) SetToken(token string) { f.token = token }

type fakePhotos struct {
	updated models.UserProfile
	err     error
	calls   int
}

func (f *fakePhotos) Update(ctx context.Context, user models.UserProfile, src avatar.Source) (models.UserProfile, error) {
	f.calls++
	return f.updated, f.err
}

func (f *fakePhotos) Remove(ctx context.Context, user models.UserProfile) (models.UserProfile, error) {
	f.calls++
	return f.updated, f.err
}

func okResult() api.AuthResult {
	return api.AuthResult{
		AccessToken: "tok-123",
		TokenType:   "bearer",
		User:        models.UserProfile{ID: "u1", Email: "m@example.com", Role: models.RoleMember, Status: models.StatusPending},
	}
}

func TestLoginPersistsTokenAndProfileTogether(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())

	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	token, err := v.Get(vault.KeyAuthToken)
	if err != nil || token != "tok-123" {
		t.Fatalf("vault token = (%q, %v)", token, err)
	}
	raw, err := v.Get(vault.KeyUserData)
	if err != nil {
		t.Fatalf("vault profile: %v", err)
	}
	var stored models.UserProfile
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("decode stored profile: %v", err)
	}
	if stored != okResult().User {
		t.Fatalf("stored profile %+v differs from login profile", stored)
	}
	if !store.Authenticated() {
		t.Fatalf("not authenticated after login")
	}
	if backend.token != "tok-123" {
		t.Fatalf("backend token = %q", backend.token)
	}
}

func TestLoginFailureLeavesPriorSession(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())

	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("first login: %v", err)
	}

	backend.loginErr = &api.Error{StatusCode: 401, Detail: "invalid credentials"}
	err := store.Login(context.Background(), "m@example.com", "wrong")
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("err = %v, want ErrAuthentication", err)
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("error %q does not carry the backend detail", err)
	}

	current, ok := store.Current()
	if !ok || current.ID != "u1" {
		t.Fatalf("prior session lost after failed login")
	}
	if token, _ := v.Get(vault.KeyAuthToken); token != "tok-123" {
		t.Fatalf("vault token disturbed: %q", token)
	}
}

func TestVaultWriteFailureAbortsLogin(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	v.FailSet = errors.New("disk full")
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())

	if err := store.Login(context.Background(), "m@example.com", "secret"); err == nil {
		t.Fatalf("login succeeded despite vault failure")
	}
	if store.Authenticated() {
		t.Fatalf("session established without durable copy")
	}
	if backend.token != "" {
		t.Fatalf("client token set despite aborted login")
	}
}

func TestProfileWriteFailureRestoresPriorToken(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())
	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("first login: %v", err)
	}

	second := okResult()
	second.AccessToken = "tok-456"
	backend.loginResult = second
	v.FailSet = errors.New("disk full")
	v.FailSetKey = vault.KeyUserData

	if err := store.Login(context.Background(), "m@example.com", "secret"); err == nil {
		t.Fatalf("login succeeded despite profile write failure")
	}

	// The vault pair still describes the first session.
	token, err := v.Get(vault.KeyAuthToken)
	if err != nil || token != "tok-123" {
		t.Fatalf("vault token = (%q, %v), want the prior session's", token, err)
	}
	if store.Token() != "tok-123" {
		t.Fatalf("memory token = %q", store.Token())
	}
}

func TestLogoutClearsMemoryEvenWhenVaultFails(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())

	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	v.FailDelete = errors.New("vault sealed")
	store.Logout()

	if store.Authenticated() {
		t.Fatalf("still authenticated after logout")
	}
	if _, ok := store.Current(); ok {
		t.Fatalf("profile survives logout")
	}
	if backend.token != "" {
		t.Fatalf("client token survives logout")
	}
}

func TestLoadRestoresPersistedSession(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())
	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A fresh process over the same vault.
	restartBackend := &fakeBackend{}
	restarted := NewStore(restartBackend, v, &fakePhotos{}, zerolog.Nop())
	restarted.Load()

	if restarted.Token() != "tok-123" {
		t.Fatalf("token = %q after load", restarted.Token())
	}
	current, ok := restarted.Current()
	if !ok || current != okResult().User {
		t.Fatalf("profile after load = %+v", current)
	}
	if restartBackend.token != "tok-123" {
		t.Fatalf("client token not restored")
	}
}

func TestLoadDegradesSilently(t *testing.T) {
	cases := []struct {
		name string
		prep func(v *vault.MemoryVault)
	}{
		{"empty vault", func(v *vault.MemoryVault) {}},
		{"token without profile", func(v *vault.MemoryVault) {
			_ = v.Set(vault.KeyAuthToken, "tok")
		}},
		{"corrupt profile", func(v *vault.MemoryVault) {
			_ = v.Set(vault.KeyAuthToken, "tok")
			_ = v.Set(vault.KeyUserData, "{not json")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := vault.NewMemory()
			tc.prep(v)
			store := NewStore(&fakeBackend{}, v, &fakePhotos{}, zerolog.Nop())
			store.Load()
			if store.Authenticated() {
				t.Fatalf("authenticated from unusable vault state")
			}
		})
	}
}

func TestRefreshProfileNoopWithoutSession(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStore(backend, vault.NewMemory(), &fakePhotos{}, zerolog.Nop())

	if err := store.RefreshProfile(context.Background()); err != nil {
		t.Fatalf("RefreshProfile: %v", err)
	}
	if backend.meCalls != 0 {
		t.Fatalf("me called %d times while logged out", backend.meCalls)
	}
}

func TestRefreshProfileOverwritesBothCopies(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	v := vault.NewMemory()
	store := NewStore(backend, v, &fakePhotos{}, zerolog.Nop())
	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed := okResult().User
	refreshed.Status = models.StatusApproved
	refreshed.MembershipID = "ANNFSU-00042"
	backend.meResult = refreshed

	if err := store.RefreshProfile(context.Background()); err != nil {
		t.Fatalf("RefreshProfile: %v", err)
	}

	current, _ := store.Current()
	if current.MembershipID != "ANNFSU-00042" {
		t.Fatalf("in-memory profile not refreshed: %+v", current)
	}
	raw, _ := v.Get(vault.KeyUserData)
	var stored models.UserProfile
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("decode vault profile: %v", err)
	}
	if stored.MembershipID != "ANNFSU-00042" {
		t.Fatalf("vault snapshot not refreshed: %+v", stored)
	}
}

func TestPhotoOperationsRequireSession(t *testing.T) {
	photos := &fakePhotos{}
	store := NewStore(&fakeBackend{}, vault.NewMemory(), photos, zerolog.Nop())

	if _, err := store.UpdatePhoto(context.Background(), avatar.BytesSource{}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("UpdatePhoto err = %v, want ErrNoSession", err)
	}
	if _, err := store.RemovePhoto(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("RemovePhoto err = %v, want ErrNoSession", err)
	}
	if photos.calls != 0 {
		t.Fatalf("pipeline invoked without a session")
	}
}

func TestUpdatePhotoReplacesWholeProfile(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	updated := okResult().User
	updated.Photo = "http://storage.test/avatars/u1_9.jpg"
	photos := &fakePhotos{updated: updated}
	v := vault.NewMemory()
	store := NewStore(backend, v, photos, zerolog.Nop())
	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := store.UpdatePhoto(context.Background(), avatar.BytesSource{})
	if err != nil {
		t.Fatalf("UpdatePhoto: %v", err)
	}
	if got.Photo != updated.Photo {
		t.Fatalf("photo = %q", got.Photo)
	}
	current, _ := store.Current()
	if current != updated {
		t.Fatalf("in-memory profile = %+v, want the pipeline result", current)
	}
}

func TestUpdatePhotoFailureLeavesProfile(t *testing.T) {
	backend := &fakeBackend{loginResult: okResult()}
	photos := &fakePhotos{err: avatar.ErrUpload}
	store := NewStore(backend, vault.NewMemory(), photos, zerolog.Nop())
	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := store.UpdatePhoto(context.Background(), avatar.BytesSource{}); !errors.Is(err, avatar.ErrUpload) {
		t.Fatalf("err = %v, want ErrUpload", err)
	}
	current, _ := store.Current()
	if current != okResult().User {
		t.Fatalf("profile changed on failed upload: %+v", current)
	}
}

type sequencedPhotos struct {
	mu      sync.Mutex
	results []models.UserProfile
}

func (f *sequencedPhotos) Update(ctx context.Context, user models.UserProfile, src avatar.Source) (models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := f.results[0]
	f.results = f.results[1:]
	return result, nil
}

func (f *sequencedPhotos) Remove(ctx context.Context, user models.UserProfile) (models.UserProfile, error) {
	return models.UserProfile{}, nil
}

func TestConcurrentPhotoUpdatesNeverMix(t *testing.T) {
	first := okResult().User
	first.Photo = "http://storage.test/avatars/u1_1.jpg"
	second := okResult().User
	second.Photo = "http://storage.test/avatars/u1_2.jpg"

	backend := &fakeBackend{loginResult: okResult()}
	photos := &sequencedPhotos{results: []models.UserProfile{first, second}}
	store := NewStore(backend, vault.NewMemory(), photos, zerolog.Nop())
	if err := store.Login(context.Background(), "m@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.UpdatePhoto(context.Background(), avatar.BytesSource{}); err != nil {
				t.Errorf("UpdatePhoto: %v", err)
			}
		}()
	}
	wg.Wait()

	current, _ := store.Current()
	if current != first && current != second {
		t.Fatalf("profile is neither complete result: %+v", current)
	}
}

// The store against the real HTTP client and the dev backend.
func TestLoginAgainstDevBackend(t *testing.T) {
	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret: "test-secret",
			JWTTTL:    time.Hour,
			OTPTTL:    10 * time.Minute,
		},
	}
	srv := devserver.New(cfg, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := api.NewClient(config.APIConfig{BaseURL: ts.URL, Timeout: 5 * time.Second}, "dev-1", zerolog.Nop())
	v := vault.NewMemory()
	store := NewStore(client, v, &fakePhotos{}, zerolog.Nop())

	err := store.Login(context.Background(), "admin@annfsu.org", "nope")
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("bad password err = %v, want ErrAuthentication", err)
	}
	if store.Authenticated() {
		t.Fatalf("authenticated after rejected login")
	}

	if err := store.Login(context.Background(), "admin@annfsu.org", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !store.IsAdmin() {
		t.Fatalf("seeded admin not recognized as admin")
	}

	// RefreshProfile round-trips through /api/auth/me with the stored token.
	if err := store.RefreshProfile(context.Background()); err != nil {
		t.Fatalf("RefreshProfile: %v", err)
	}

	store.Logout()
	if err := store.RefreshProfile(context.Background()); err != nil {
		t.Fatalf("RefreshProfile after logout: %v", err)
	}
}
