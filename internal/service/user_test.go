package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apiErrors "github.com/dtroode/accountd/internal/apierrors"
	"github.com/dtroode/accountd/internal/binding"
	"github.com/dtroode/accountd/internal/mocks"
	"github.com/dtroode/accountd/internal/model"
	"github.com/dtroode/accountd/internal/password"
	"github.com/dtroode/accountd/internal/repository/memory"
	"github.com/dtroode/accountd/internal/session"
	"github.com/dtroode/accountd/internal/testutil"
	"github.com/dtroode/accountd/internal/validation"
)

var testParams = password.Params{Time: 1, MemKiB: 1024, Par: 1, SaltBytes: 8, KeyLen: 16}

func newService(manager model.SessionManager, managerType string) *User {
	return NewUser(
		session.NewProvider(manager, managerType),
		password.NewHasher(testParams),
		validation.NewUserValidator(),
		binding.NewJSONDeserializer(),
		testutil.MakeNoopLogger(),
	)
}

func newMemoryService(t *testing.T) (*User, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return newService(memory.NewSessionManager(store), model.ManagerMemory), store
}

func validPayload() map[string]any {
	return map[string]any{
		"email":     "a@x.com",
		"password":  "p",
		"firstName": "A",
		"lastName":  "B",
	}
}

func TestUser_CreateForRequest(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)

	first, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, "p", first.Password)
	assert.NotEmpty(t, first.Salt)
	assert.Equal(t, 1, first.Version)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, []string{}, first.Roles)

	other := validPayload()
	other["email"] = "b@x.com"
	second, err := svc.CreateForRequest(ctx, other, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Salt, second.Salt)

	_, err = svc.CreateForRequest(ctx, validPayload(), nil)
	require.Error(t, err)
	apiErr, ok := apiErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apiErrors.KindConflict, apiErr.Kind)
	assert.Equal(t, `Email address already exists: "a@x.com".`, apiErr.Message)
	assert.Equal(t, 2, store.Len())
}

func TestUser_CreateForRequest_StripsServerOwnedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	data := validPayload()
	data["version"] = 42
	data["createdAt"] = "1999-01-01T00:00:00Z"
	data["roles"] = []any{"USER"}

	u, err := svc.CreateForRequest(ctx, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Version)
	assert.NotEqual(t, 1999, u.CreatedAt.Year())
	assert.Equal(t, []string{"USER"}, u.Roles)
	assert.Contains(t, data, "version", "caller's map must not be modified")
}

func TestUser_CreateForRequest_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		drop      string
		blank     string
		wantField string
	}{
		{name: "missing email", drop: "email", wantField: "email"},
		{name: "missing password", drop: "password", wantField: "password"},
		{name: "blank email", blank: "email", wantField: "email"},
		{name: "blank password", blank: "password", wantField: "password"},
		{name: "blank first name", blank: "firstName", wantField: "firstName"},
		{name: "blank last name", blank: "lastName", wantField: "lastName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newMemoryService(t)
			data := validPayload()
			if tt.drop != "" {
				delete(data, tt.drop)
			}
			if tt.blank != "" {
				data[tt.blank] = "  "
			}

			_, err := svc.CreateForRequest(ctx, data, nil)
			require.Error(t, err)
			apiErr, ok := apiErrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apiErrors.KindValidation, apiErr.Kind)
			assert.Equal(t, "Invalid User Data Provided", apiErr.Message)
			require.Len(t, apiErr.Errors, 1)
			assert.Contains(t, apiErr.Errors[0], tt.wantField+":")
			assert.Zero(t, store.Len())
		})
	}
}

func TestUser_CreateForRequest_PaddedDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)

	_, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)

	padded := validPayload()
	padded["email"] = "  a@x.com "
	_, err = svc.CreateForRequest(ctx, padded, nil)
	require.Error(t, err)
	apiErr, ok := apiErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apiErrors.KindConflict, apiErr.Kind)
	assert.Equal(t, `Email address already exists: "a@x.com".`, apiErr.Message)
	assert.Equal(t, 1, store.Len())

	// Login normalizes the email the same way.
	_, err = svc.Login(ctx, "a@x.com ", "p")
	assert.NoError(t, err)
}

func TestUser_CreateForRequest_BadFieldType(t *testing.T) {
	svc, _ := newMemoryService(t)
	data := validPayload()
	data["email"] = 7

	_, err := svc.CreateForRequest(context.Background(), data, nil)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindInvalidArgument))
}

func TestUser_GetByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	created, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID.String(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Email, got.Email)

	absent, err := svc.GetByID(ctx, uuid.NewString(), nil)
	require.NoError(t, err)
	assert.Nil(t, absent)

	_, err = svc.GetByID(ctx, "not-an-id", nil)
	require.Error(t, err)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindNotFound))
	assert.Equal(t, "Could not find user by id not-an-id", err.Error())
}

func TestUser_UpdateForRequest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	created, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)
	hash, salt := created.Password, created.Salt

	updated, err := svc.UpdateForRequest(ctx, created.ID.String(), map[string]any{"firstName": "Z", "version": 99}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Z", updated.FirstName)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, hash, updated.Password, "password untouched when not supplied")
	assert.Equal(t, salt, updated.Salt)

	_, err = svc.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)

	rehashed, err := svc.UpdateForRequest(ctx, created.ID.String(), map[string]any{"password": "new"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, "new", rehashed.Password)
	assert.NotEqual(t, salt, rehashed.Salt)

	_, err = svc.Login(ctx, "a@x.com", "p")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "a@x.com", "new")
	assert.NoError(t, err)
}

func TestUser_UpdateForRequest_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	created, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)

	_, err = svc.UpdateForRequest(ctx, "nope", map[string]any{"firstName": "Z"}, nil)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindNotFound))

	missing := uuid.NewString()
	_, err = svc.UpdateForRequest(ctx, missing, map[string]any{"firstName": "Z"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Could not find user by id, "+missing, err.Error())

	_, err = svc.UpdateForRequest(ctx, created.ID.String(), map[string]any{"lastName": ""}, nil)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindValidation))
}

func TestUser_UpdateForRequest_Validation(t *testing.T) {
	ctx := context.Background()

	for _, field := range []string{"email", "password", "firstName", "lastName"} {
		t.Run("blank "+field, func(t *testing.T) {
			svc, _ := newMemoryService(t)
			created, err := svc.CreateForRequest(ctx, validPayload(), nil)
			require.NoError(t, err)

			_, err = svc.UpdateForRequest(ctx, created.ID.String(), map[string]any{field: "   "}, nil)
			require.Error(t, err)
			apiErr, ok := apiErrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apiErrors.KindValidation, apiErr.Kind)
			require.Len(t, apiErr.Errors, 1)
			assert.Contains(t, apiErr.Errors[0], field+":")

			stored, err := svc.GetByID(ctx, created.ID.String(), nil)
			require.NoError(t, err)
			assert.Equal(t, created.Version, stored.Version)
			assert.Equal(t, "a@x.com", stored.Email)
		})
	}
}

// Update does not check email uniqueness itself; the storage constraint
// still turns a duplicate into a Conflict.
func TestUser_UpdateForRequest_DuplicateEmailCaughtByStorage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	_, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)
	other := validPayload()
	other["email"] = "b@x.com"
	b, err := svc.CreateForRequest(ctx, other, nil)
	require.NoError(t, err)

	_, err = svc.UpdateForRequest(ctx, b.ID.String(), map[string]any{"email": "a@x.com"}, nil)
	require.Error(t, err)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindConflict))
}

func TestUser_DeleteByID(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)

	created, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, created.ID.String(), nil))
	assert.Zero(t, store.Len())

	err = svc.DeleteByID(ctx, created.ID.String(), nil)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindNotFound))

	err = svc.DeleteByID(ctx, "garbage", nil)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindNotFound))

	// The email can be registered again.
	_, err = svc.CreateForRequest(ctx, validPayload(), nil)
	assert.NoError(t, err)
}

func TestUser_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	created, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)

	u, err := svc.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, wrongPassword := svc.Login(ctx, "a@x.com", "wrong")
	_, unknownEmail := svc.Login(ctx, "nobody@x.com", "p")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Same(t, wrongPassword, unknownEmail)
	assert.Equal(t, apiErrors.KindAccessDenied, ErrInvalidCredentials.Kind)
	assert.Equal(t, "email or password invalid", wrongPassword.Error())
}

func TestUser_SessionReuse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	mgr := mocks.NewSessionManager(t)
	var created int
	mgr.On("CreateSession", mock.Anything, model.ManagerMemory).
		Return(func(ctx context.Context, managerType string) (model.Session, error) {
			created++
			return memory.NewSessionManager(store).CreateSession(ctx, managerType)
		})

	svc := newService(mgr, model.ManagerMemory)

	// One top-level call opens one session and shares it with nested calls.
	u, err := svc.CreateForRequest(ctx, validPayload(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.NoError(t, svc.DeleteByID(ctx, u.ID.String(), nil))
	assert.Equal(t, 2, created)

	// A caller-supplied session of the right type is reused as is.
	own, err := memory.NewSessionManager(store).CreateSession(ctx, model.ManagerMemory)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, uuid.NewString(), own)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestUser_SessionFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend unreachable")

	mgr := mocks.NewSessionManager(t)
	mgr.On("CreateSession", mock.Anything, model.ManagerPostgres).Return(nil, boom)
	svc := newService(mgr, model.ManagerPostgres)

	_, err := svc.GetByID(ctx, uuid.NewString(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	_, typed := apiErrors.As(err)
	assert.False(t, typed)

	_, err = svc.CreateForRequest(ctx, validPayload(), nil)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Login(ctx, "a@x.com", "p")
	assert.ErrorIs(t, err, boom)
}

func TestUser_FlushFailures(t *testing.T) {
	ctx := context.Background()
	existing := &model.User{ID: uuid.New(), Email: "a@x.com", Password: "h", Salt: "s", FirstName: "A", LastName: "B", Version: 3}

	tests := []struct {
		name     string
		flushErr error
		wantKind *apiErrors.Kind
	}{
		{name: "version conflict", flushErr: model.ErrVersionConflict, wantKind: kindPtr(apiErrors.KindConflict)},
		{name: "duplicate email", flushErr: model.ErrDuplicateEmail, wantKind: kindPtr(apiErrors.KindConflict)},
		{name: "infrastructure", flushErr: errors.New("tx aborted")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewUserRepository(t)
			sess := mocks.NewSession(t)
			sess.On("ManagerType").Return(model.ManagerPostgres)
			sess.On("Users").Return(repo)
			sess.On("Persist", mock.Anything).Return()
			sess.On("Flush", ctx).Return(tt.flushErr)

			repo.On("ValidateIDField", existing.ID.String()).Return(true)
			repo.On("Find", ctx, existing.ID.String()).Return(existing.Clone(), nil)

			svc := newService(mocks.NewSessionManager(t), model.ManagerPostgres)
			_, err := svc.UpdateForRequest(ctx, existing.ID.String(), map[string]any{"firstName": "Z"}, sess)
			require.Error(t, err)

			if tt.wantKind != nil {
				assert.True(t, apiErrors.IsKind(err, *tt.wantKind))
				return
			}
			assert.ErrorIs(t, err, tt.flushErr)
			_, typed := apiErrors.As(err)
			assert.False(t, typed)
		})
	}
}

func TestUser_Create_ConflictDoesNotPersist(t *testing.T) {
	ctx := context.Background()

	repo := mocks.NewUserRepository(t)
	repo.On("FindBy", ctx, model.Criteria{"email": "a@x.com"}).Return([]*model.User{{ID: uuid.New()}}, nil)

	sess := mocks.NewSession(t)
	sess.On("ManagerType").Return(model.ManagerPostgres)
	sess.On("Users").Return(repo)

	svc := newService(mocks.NewSessionManager(t), model.ManagerPostgres)
	u := &model.User{Email: "a@x.com", Password: "p"}

	_, err := svc.Create(ctx, u, sess)
	assert.True(t, apiErrors.IsKind(err, apiErrors.KindConflict))
	sess.AssertNotCalled(t, "Persist", mock.Anything)
	sess.AssertNotCalled(t, "Flush", mock.Anything)
	assert.NotEqual(t, "p", u.Password)
}

func kindPtr(k apiErrors.Kind) *apiErrors.Kind { return &k }
