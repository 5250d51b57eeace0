package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

// memState is shared by a MemoryStore and every transaction view over it.
// txMu serializes writers; mu guards the maps. Audit entries are outside
// transactional state and survive a rollback.
type memState struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	tenants  map[uuid.UUID]models.Tenant
	users    map[uuid.UUID]models.User
	projects map[uuid.UUID]models.Project
	tasks    map[uuid.UUID]models.Task
	audit    []models.AuditLog
}

func (st *memState) snapshot() *memState {
	st.mu.RLock()
	defer st.mu.RUnlock()

	cp := &memState{
		tenants:  make(map[uuid.UUID]models.Tenant, len(st.tenants)),
		users:    make(map[uuid.UUID]models.User, len(st.users)),
		projects: make(map[uuid.UUID]models.Project, len(st.projects)),
		tasks:    make(map[uuid.UUID]models.Task, len(st.tasks)),
	}
	for k, v := range st.tenants {
		cp.tenants[k] = v
	}
	for k, v := range st.users {
		cp.users[k] = v
	}
	for k, v := range st.projects {
		cp.projects[k] = v
	}
	for k, v := range st.tasks {
		cp.tasks[k] = v
	}
	return cp
}

func (st *memState) restore(from *memState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.tenants = from.tenants
	st.users = from.users
	st.projects = from.projects
	st.tasks = from.tasks
}

// MemoryStore is a process-local Store for development and tests. Transactions are
// serialized and roll back on error, so it honors the same locking contract as Postgres.
type MemoryStore struct {
	st   *memState
	inTx bool
	now  func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		st: &memState{
			tenants:  make(map[uuid.UUID]models.Tenant),
			users:    make(map[uuid.UUID]models.User),
			projects: make(map[uuid.UUID]models.Project),
			tasks:    make(map[uuid.UUID]models.Task),
		},
		now: time.Now,
	}
}

func (s *MemoryStore) Tenants() TenantRepository   { return (*memTenants)(s) }
func (s *MemoryStore) Users() UserRepository       { return (*memUsers)(s) }
func (s *MemoryStore) Projects() ProjectRepository { return (*memProjects)(s) }
func (s *MemoryStore) Tasks() TaskRepository       { return (*memTasks)(s) }
func (s *MemoryStore) Audit() AuditRepository      { return (*memAudit)(s) }

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

// Transaction runs fn while holding the writer lock and restores the prior state if fn fails.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	before := s.st.snapshot()
	if err := fn(&MemoryStore{st: s.st, inTx: true, now: s.now}); err != nil {
		s.st.restore(before)
		return err
	}
	return nil
}

// write runs fn as a single-statement write, taking the writer lock unless a transaction holds it.
func (s *MemoryStore) write(fn func() error) error {
	if !s.inTx {
		s.st.txMu.Lock()
		defer s.st.txMu.Unlock()
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn()
}

func (s *MemoryStore) read(fn func()) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	fn()
}

// AuditEntries returns a copy of every recorded audit entry, oldest first
func (s *MemoryStore) AuditEntries() []models.AuditLog {
	var out []models.AuditLog
	s.read(func() {
		out = append(out, s.st.audit...)
	})
	return out
}

func pageBounds(n int, page models.Page) (int, int) {
	page = page.Normalize(models.DefaultPageSize)
	start := page.Offset()
	if start < 0 || start > n {
		start = n
	}
	end := start + page.Size
	if end > n {
		end = n
	}
	return start, end
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type memTenants MemoryStore

func (r *memTenants) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memTenants) Create(ctx context.Context, tenant *models.Tenant) error {
	s := r.store()
	return s.write(func() error {
		for _, t := range s.st.tenants {
			if t.Subdomain == tenant.Subdomain {
				return ErrDuplicate
			}
		}
		tenant.PrepareForInsert(s.now())
		s.st.tenants[tenant.ID] = *tenant
		return nil
	})
}

func (r *memTenants) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var (
		tenant models.Tenant
		ok     bool
	)
	r.store().read(func() { tenant, ok = r.st.tenants[id] })
	if !ok {
		return nil, ErrNotFound
	}
	return &tenant, nil
}

// GetByIDForUpdate relies on the transaction's writer lock for exclusion
func (r *memTenants) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.GetByID(ctx, id)
}

func (r *memTenants) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	var found *models.Tenant
	r.store().read(func() {
		for _, t := range r.st.tenants {
			if t.Subdomain == subdomain {
				t := t
				found = &t
				return
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *memTenants) List(ctx context.Context, filter models.TenantFilter) ([]models.Tenant, int64, error) {
	var all []models.Tenant
	r.store().read(func() {
		for _, t := range r.st.tenants {
			if filter.Plan != "" && t.SubscriptionPlan != filter.Plan {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
			all = append(all, t)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start, end := pageBounds(len(all), filter.Page)
	return all[start:end], int64(len(all)), nil
}

func (r *memTenants) Update(ctx context.Context, tenant *models.Tenant) error {
	s := r.store()
	return s.write(func() error {
		current, ok := s.st.tenants[tenant.ID]
		if !ok {
			return ErrNotFound
		}
		tenant.CreatedAt = current.CreatedAt
		tenant.Subdomain = current.Subdomain
		tenant.UpdatedAt = s.now()
		s.st.tenants[tenant.ID] = *tenant
		return nil
	})
}

func (r *memTenants) Stats(ctx context.Context, id uuid.UUID) (models.TenantStats, error) {
	var stats models.TenantStats
	r.store().read(func() {
		for _, u := range r.st.users {
			if u.TenantID != nil && *u.TenantID == id {
				stats.TotalUsers++
			}
		}
		for _, p := range r.st.projects {
			if p.TenantID == id {
				stats.TotalProjects++
			}
		}
		for _, t := range r.st.tasks {
			if t.TenantID == id {
				stats.TotalTasks++
			}
		}
	})
	return stats, nil
}

type memUsers MemoryStore

func (r *memUsers) store() *MemoryStore { return (*MemoryStore)(r) }

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	s := r.store()
	return s.write(func() error {
		if user.TenantID != nil {
			if _, ok := s.st.tenants[*user.TenantID]; !ok {
				return ErrNotFound
			}
		}
		for _, u := range s.st.users {
			if u.Email == user.Email && sameTenant(u.TenantID, user.TenantID) {
				return ErrDuplicate
			}
		}
		user.PrepareForInsert(s.now())
		s.st.users[user.ID] = *user
		return nil
	})
}

func userVisible(scope models.Scope, u models.User) bool {
	if scope.IsGlobal() {
		return true
	}
	return u.TenantID != nil && scope.Allows(*u.TenantID)
}

func (r *memUsers) GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.User, error) {
	var (
		user models.User
		ok   bool
	)
	r.store().read(func() { user, ok = r.st.users[id] })
	if !ok || !userVisible(scope, user) {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string, tenantID *uuid.UUID) (*models.User, error) {
	var found *models.User
	r.store().read(func() {
		for _, u := range r.st.users {
			if u.Email == email && sameTenant(u.TenantID, tenantID) {
				u := u
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *memUsers) List(ctx context.Context, scope models.Scope, filter models.UserFilter) ([]models.UserView, int64, error) {
	var all []models.UserView
	r.store().read(func() {
		for _, u := range r.st.users {
			if !userVisible(scope, u) {
				continue
			}
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			if filter.Search != "" && !containsFold(u.FullName, filter.Search) && !containsFold(u.Email, filter.Search) {
				continue
			}
			view := models.UserView{User: u}
			if u.TenantID != nil {
				view.TenantName = r.st.tenants[*u.TenantID].Name
			}
			all = append(all, view)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start, end := pageBounds(len(all), filter.Page)
	return all[start:end], int64(len(all)), nil
}

func (r *memUsers) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	r.store().read(func() {
		for _, u := range r.st.users {
			if u.TenantID != nil && *u.TenantID == tenantID {
				n++
			}
		}
	})
	return n, nil
}

func (r *memUsers) Update(ctx context.Context, user *models.User) error {
	s := r.store()
	return s.write(func() error {
		current, ok := s.st.users[user.ID]
		if !ok || !sameTenant(current.TenantID, user.TenantID) {
			return ErrNotFound
		}
		current.FullName = user.FullName
		current.Role = user.Role
		current.IsActive = user.IsActive
		current.PasswordHash = user.PasswordHash
		current.UpdatedAt = s.now()
		s.st.users[user.ID] = current
		*user = current
		return nil
	})
}

func (r *memUsers) Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error {
	s := r.store()
	return s.write(func() error {
		user, ok := s.st.users[id]
		if !ok || !userVisible(scope, user) {
			return ErrNotFound
		}
		delete(s.st.users, id)
		for tid, t := range s.st.tasks {
			if t.AssignedTo != nil && *t.AssignedTo == id {
				t.AssignedTo = nil
				s.st.tasks[tid] = t
			}
		}
		return nil
	})
}

type memProjects MemoryStore

func (r *memProjects) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memProjects) Create(ctx context.Context, project *models.Project) error {
	s := r.store()
	return s.write(func() error {
		if _, ok := s.st.tenants[project.TenantID]; !ok {
			return ErrNotFound
		}
		project.PrepareForInsert(s.now())
		s.st.projects[project.ID] = *project
		return nil
	})
}

func (r *memProjects) GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.Project, error) {
	var (
		project models.Project
		ok      bool
	)
	r.store().read(func() { project, ok = r.st.projects[id] })
	if !ok || !scope.Allows(project.TenantID) {
		return nil, ErrNotFound
	}
	return &project, nil
}

// view must be called with the read lock held
func (r *memProjects) view(p models.Project) models.ProjectView {
	v := models.ProjectView{
		Project:     p,
		TenantName:  r.st.tenants[p.TenantID].Name,
		CreatorName: r.st.users[p.CreatedBy].FullName,
	}
	for _, t := range r.st.tasks {
		if t.ProjectID != p.ID {
			continue
		}
		v.TaskCount++
		if t.Status == models.TaskStatusCompleted {
			v.CompletedTaskCount++
		}
	}
	return v
}

func (r *memProjects) GetView(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.ProjectView, error) {
	var (
		v  models.ProjectView
		ok bool
	)
	r.store().read(func() {
		var p models.Project
		if p, ok = r.st.projects[id]; ok && scope.Allows(p.TenantID) {
			v = r.view(p)
		} else {
			ok = false
		}
	})
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (r *memProjects) List(ctx context.Context, scope models.Scope, filter models.ProjectFilter) ([]models.ProjectView, int64, error) {
	var all []models.ProjectView
	r.store().read(func() {
		for _, p := range r.st.projects {
			if !scope.Allows(p.TenantID) {
				continue
			}
			if filter.Status != "" && p.Status != filter.Status {
				continue
			}
			if filter.Search != "" && !containsFold(p.Name, filter.Search) {
				continue
			}
			all = append(all, r.view(p))
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start, end := pageBounds(len(all), filter.Page)
	return all[start:end], int64(len(all)), nil
}

func (r *memProjects) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	r.store().read(func() {
		for _, p := range r.st.projects {
			if p.TenantID == tenantID {
				n++
			}
		}
	})
	return n, nil
}

func (r *memProjects) Update(ctx context.Context, project *models.Project) error {
	s := r.store()
	return s.write(func() error {
		current, ok := s.st.projects[project.ID]
		if !ok || current.TenantID != project.TenantID {
			return ErrNotFound
		}
		current.Name = project.Name
		current.Description = project.Description
		current.Status = project.Status
		current.UpdatedAt = s.now()
		s.st.projects[project.ID] = current
		*project = current
		return nil
	})
}

func (r *memProjects) Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error {
	s := r.store()
	return s.write(func() error {
		project, ok := s.st.projects[id]
		if !ok || !scope.Allows(project.TenantID) {
			return ErrNotFound
		}
		for tid, t := range s.st.tasks {
			if t.ProjectID == id {
				delete(s.st.tasks, tid)
			}
		}
		delete(s.st.projects, id)
		return nil
	})
}

type memTasks MemoryStore

func (r *memTasks) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memTasks) Create(ctx context.Context, task *models.Task) error {
	s := r.store()
	return s.write(func() error {
		project, ok := s.st.projects[task.ProjectID]
		if !ok || project.TenantID != task.TenantID {
			return ErrNotFound
		}
		task.PrepareForInsert(s.now())
		s.st.tasks[task.ID] = *task
		return nil
	})
}

func (r *memTasks) GetByID(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.Task, error) {
	var (
		task models.Task
		ok   bool
	)
	r.store().read(func() { task, ok = r.st.tasks[id] })
	if !ok || !scope.Allows(task.TenantID) {
		return nil, ErrNotFound
	}
	return &task, nil
}

// view must be called with the read lock held
func (r *memTasks) view(t models.Task) models.TaskView {
	v := models.TaskView{
		Task:        t,
		TenantName:  r.st.tenants[t.TenantID].Name,
		ProjectName: r.st.projects[t.ProjectID].Name,
	}
	if t.AssignedTo != nil {
		v.AssigneeName = r.st.users[*t.AssignedTo].FullName
	}
	return v
}

func (r *memTasks) GetView(ctx context.Context, scope models.Scope, id uuid.UUID) (*models.TaskView, error) {
	var (
		v  models.TaskView
		ok bool
	)
	r.store().read(func() {
		var t models.Task
		if t, ok = r.st.tasks[id]; ok && scope.Allows(t.TenantID) {
			v = r.view(t)
		} else {
			ok = false
		}
	})
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (r *memTasks) List(ctx context.Context, scope models.Scope, filter models.TaskFilter) ([]models.TaskView, int64, error) {
	var all []models.TaskView
	r.store().read(func() {
		for _, t := range r.st.tasks {
			if !scope.Allows(t.TenantID) {
				continue
			}
			if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
			if filter.Priority != "" && t.Priority != filter.Priority {
				continue
			}
			if filter.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *filter.AssignedTo) {
				continue
			}
			all = append(all, r.view(t))
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start, end := pageBounds(len(all), filter.Page)
	return all[start:end], int64(len(all)), nil
}

func (r *memTasks) Update(ctx context.Context, task *models.Task) error {
	s := r.store()
	return s.write(func() error {
		current, ok := s.st.tasks[task.ID]
		if !ok || current.TenantID != task.TenantID {
			return ErrNotFound
		}
		current.Title = task.Title
		current.Description = task.Description
		current.Status = task.Status
		current.Priority = task.Priority
		current.AssignedTo = task.AssignedTo
		current.DueDate = task.DueDate
		current.UpdatedAt = s.now()
		s.st.tasks[task.ID] = current
		*task = current
		return nil
	})
}

func (r *memTasks) Delete(ctx context.Context, scope models.Scope, id uuid.UUID) error {
	s := r.store()
	return s.write(func() error {
		task, ok := s.st.tasks[id]
		if !ok || !scope.Allows(task.TenantID) {
			return ErrNotFound
		}
		delete(s.st.tasks, id)
		return nil
	})
}

type memAudit MemoryStore

func (r *memAudit) store() *MemoryStore { return (*MemoryStore)(r) }

// Create appends outside the writer lock
func (r *memAudit) Create(ctx context.Context, entry *models.AuditLog) error {
	s := r.store()
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	entry.PrepareForInsert(s.now())
	s.st.audit = append(s.st.audit, *entry)
	return nil
}

func (r *memAudit) List(ctx context.Context, scope models.Scope, page models.Page) ([]models.AuditLog, int64, error) {
	var all []models.AuditLog
	r.store().read(func() {
		for i := len(r.st.audit) - 1; i >= 0; i-- {
			e := r.st.audit[i]
			if !scope.IsGlobal() && (e.TenantID == nil || !scope.Allows(*e.TenantID)) {
				continue
			}
			all = append(all, e)
		}
	})
	start, end := pageBounds(len(all), page)
	return all[start:end], int64(len(all)), nil
}

func (r *memAudit) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s := r.store()
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	kept := s.st.audit[:0]
	var removed int64
	for _, e := range s.st.audit {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.st.audit = kept
	return removed, nil
}
