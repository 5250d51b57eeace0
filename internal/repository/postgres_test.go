package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewPostgresStore(db), mock
}

var projectColumns = []string{"id", "tenant_id", "name", "description", "status", "created_by", "created_at", "updated_at"}

func TestPostgresProjectGetByIDAppliesTenantPredicate(t *testing.T) {
	store, mock := newMockStore(t)
	tenantID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE tenant_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(projectID, tenantID, "Roadmap", "", "active", uuid.New(), time.Now(), time.Now()))

	project, err := store.Projects().GetByID(context.Background(), models.TenantScope(tenantID), projectID)
	require.NoError(t, err)
	assert.Equal(t, projectID, project.ID)
	assert.Equal(t, tenantID, project.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectGetByIDOutsideTenantIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE tenant_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err := store.Projects().GetByID(context.Background(), models.TenantScope(uuid.New()), uuid.New())
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGlobalScopeOmitsTenantPredicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	_, err := store.Tasks().GetByID(context.Background(), models.GlobalScope(), uuid.New())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTenantLockUsesForUpdate(t *testing.T) {
	store, mock := newMockStore(t)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subdomain", "max_projects"}).AddRow(tenantID, "acme", 3))

	tenant, err := store.Tenants().GetByIDForUpdate(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 3, tenant.MaxProjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountByTenant(t *testing.T) {
	store, mock := newMockStore(t)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := store.Projects().CountByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresScopedDeleteMissesOtherTenants(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "users" WHERE tenant_id = \$1 AND id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Users().Delete(context.Background(), models.TenantScope(uuid.New()), uuid.New())
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateIsBoundToOwningTenant(t *testing.T) {
	store, mock := newMockStore(t)
	task := &models.Task{ID: uuid.New(), TenantID: uuid.New(), Title: "Ship", Status: models.TaskStatusCompleted}

	mock.ExpectExec(`UPDATE "tasks" SET .* WHERE id = \$\d+ AND tenant_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Tasks().Update(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGlobalEmailLookup(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND tenant_id IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).
			AddRow(uuid.New(), "superadmin@system.com", "super_admin"))

	user, err := store.Users().GetByEmail(context.Background(), "superadmin@system.com", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAuditRetention(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "audit_logs" WHERE created_at < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := store.Audit().DeleteOlderThan(context.Background(), time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserSearchMatchesWildcardsLiterally(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE \(users\.full_name ILIKE \$1 ESCAPE '\\' OR users\.email ILIKE \$2 ESCAPE '\\'\)`).
		WithArgs(`%50\%\_off%`, `%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT users\.\*, tenants\.name AS tenant_name FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := store.Users().List(context.Background(), models.GlobalScope(), models.UserFilter{
		Search: "50%_off",
		Page:   models.Page{Number: 1, Size: 10},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%acme%", containsPattern("acme"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, containsPattern(`c:\tmp`))
}

func TestTranslateForeignKeyViolationIsNotFound(t *testing.T) {
	err := translate(fmt.Errorf("insert task: %w", gorm.ErrForeignKeyViolated), "create task")
	assert.True(t, IsNotFound(err))

	err = translate(gorm.ErrDuplicatedKey, "create user")
	assert.ErrorIs(t, err, ErrDuplicate)

	err = translate(errors.New("connection reset"), "create task")
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to create task")
}
