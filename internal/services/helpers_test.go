package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

const (
	testSecret          = "test-secret"
	testSuperAdminEmail = "superadmin@system.com"
	testPassword        = "Password123"
)

type memRecorder struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (r *memRecorder) Record(entry models.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *memRecorder) actions() []models.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func (r *memRecorder) last() models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}

// env is a fully wired service layer over the memory store
type env struct {
	store     *repository.MemoryStore
	passwords *PasswordService
	tokens    *TokenService
	audit     *memRecorder
	auth      *AuthService
	tenants   *TenantService
	users     *UserService
	projects  *ProjectService
	tasks     *TaskService
	seed      *SeedService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := quietLogger()
	store := repository.NewMemoryStore()
	passwords := NewPasswordService(bcrypt.MinCost)
	tokens := NewTokenService(testSecret, time.Hour, "taskhub-test")
	rec := &memRecorder{}

	auth, err := NewAuthService(store, passwords, tokens, nil, rec, AuthConfig{
		SuperAdminEmail:       testSuperAdminEmail,
		SystemSubdomain:       "system",
		BlockSuspendedTenants: true,
	}, logger)
	require.NoError(t, err)

	e := &env{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		audit:     rec,
		auth:      auth,
		tenants:   NewTenantService(store, nil, rec, logger),
		users:     NewUserService(store, passwords, rec, logger),
		projects:  NewProjectService(store, rec, logger),
		tasks:     NewTaskService(store, rec, logger),
		seed:      NewSeedService(store, passwords, logger),
	}

	ctx := context.Background()
	_, _, err = e.seed.EnsureSystemTenant(ctx, "system")
	require.NoError(t, err)
	_, _, err = e.seed.EnsureSuperAdmin(ctx, testSuperAdminEmail, testPassword, "Super Admin")
	require.NoError(t, err)
	return e
}

// register creates a tenant and returns its admin identity
func (e *env) register(t *testing.T, subdomain string) (models.Identity, *RegisterResult) {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		TenantName:    subdomain + " Inc",
		Subdomain:     subdomain,
		AdminEmail:    "admin@" + subdomain + ".com",
		AdminPassword: testPassword,
		AdminFullName: subdomain + " Admin",
	})
	require.NoError(t, err)

	identity, err := e.tokens.Authenticate(res.Token)
	require.NoError(t, err)
	return identity, res
}

// member creates a plain user in admin's tenant and returns its identity
func (e *env) member(t *testing.T, admin models.Identity, email string) models.Identity {
	t.Helper()
	profile, err := e.users.Create(context.Background(), admin, CreateUserInput{
		Email: email, Password: testPassword, FullName: email,
	})
	require.NoError(t, err)
	tenantID, _ := admin.TenantID()
	identity, err := models.MemberIdentity(profile.ID, tenantID, models.RoleUser)
	require.NoError(t, err)
	return identity
}

func (e *env) superAdmin(t *testing.T) models.Identity {
	t.Helper()
	user, err := e.store.Users().GetByEmail(context.Background(), testSuperAdminEmail, nil)
	require.NoError(t, err)
	return models.SuperAdminIdentity(user.ID)
}
