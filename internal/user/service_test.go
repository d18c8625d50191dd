package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmycampus/campus-booking-backend/internal/auth"
	"github.com/bookmycampus/campus-booking-backend/internal/department"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*User), byID: make(map[string]*User)}
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return ErrEmailAlreadyUsed
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return nil
}

func (r *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

// fakeDepartments serves the static catalog without a database.
type fakeDepartments struct{}

func (fakeDepartments) GetByID(ctx context.Context, id string) (*department.Department, error) {
	for _, d := range department.DefaultCatalog() {
		if d.ID == id {
			dep := d
			return &dep, nil
		}
	}
	return nil, department.ErrNotFound
}

func (fakeDepartments) List(ctx context.Context) ([]*department.Department, error) {
	catalog := department.DefaultCatalog()
	out := make([]*department.Department, len(catalog))
	for i := range catalog {
		out[i] = &catalog[i]
	}
	return out, nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	// Minimum bcrypt cost keeps the tests fast.
	hasher := auth.NewBcryptPasswordHasher(4)
	return NewService(repo, hasher, fakeDepartments{}), repo
}

func validRequest() RegisterRequest {
	return RegisterRequest{
		Email:        "John.Student@Campus.edu",
		Password:     "supersecret",
		DisplayName:  "  John Student  ",
		Role:         "student",
		DepartmentID: "cs",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes input", func(t *testing.T) {
		svc, _ := newTestService()
		u, err := svc.Register(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, "john.student@campus.edu", u.Email)
		assert.Equal(t, "John Student", u.DisplayName)
		assert.Equal(t, RoleStudent, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEmpty(t, u.ID)
		assert.NotEqual(t, "supersecret", u.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, validRequest())
		require.NoError(t, err)
		_, err = svc.Register(ctx, validRequest())
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newTestService()
		req := validRequest()
		req.Password = "short"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, _ := newTestService()
		req := validRequest()
		req.Role = "dean"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown department", func(t *testing.T) {
		svc, _ := newTestService()
		req := validRequest()
		req.DepartmentID = "astro"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrUnknownDepartment)
	})

	t.Run("blank email", func(t *testing.T) {
		svc, _ := newTestService()
		req := validRequest()
		req.Email = "   "
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailRequired)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	registered, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	t.Run("success records last login", func(t *testing.T) {
		u, err := svc.Login(ctx, "john.student@campus.edu", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)

		stored := repo.byID[u.ID]
		require.NotNil(t, stored.LastLoginAt)
	})

	t.Run("email is case insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, "JOHN.STUDENT@CAMPUS.EDU", "supersecret")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "john.student@campus.edu", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@campus.edu", "supersecret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo.byID[registered.ID].IsActive = false
		defer func() { repo.byID[registered.ID].IsActive = true }()

		_, err := svc.Login(ctx, "john.student@campus.edu", "supersecret")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleHOD.IsApprover())
	assert.False(t, RoleStudent.IsApprover())
	assert.False(t, RoleTeacher.IsApprover())
	assert.False(t, Role("dean").Valid())
}
