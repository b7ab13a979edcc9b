package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// fakeAdminStore is an in-memory AdminStore tracking which mutations ran.
type fakeAdminStore struct {
	admins    map[int]*models.Admin
	nextID    int
	deleted   []int
	createErr error
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[int]*models.Admin{}, nextID: 1}
}

func (f *fakeAdminStore) add(email, password string) *models.Admin {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	admin := &models.Admin{ID: f.nextID, Email: strings.ToLower(email), PasswordHash: string(hash)}
	f.admins[admin.ID] = admin
	f.nextID++
	return admin
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.Email == strings.ToLower(email) {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminStore) GetByID(_ context.Context, id int) (*models.Admin, error) {
	if a, ok := f.admins[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminStore) List(_ context.Context) ([]models.Admin, error) {
	out := make([]models.Admin, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAdminStore) Count(_ context.Context) (int, error) { return len(f.admins), nil }

func (f *fakeAdminStore) Create(_ context.Context, admin *models.Admin) error {
	if f.createErr != nil {
		return f.createErr
	}
	admin.ID = f.nextID
	f.admins[admin.ID] = admin
	f.nextID++
	return nil
}

func (f *fakeAdminStore) Delete(_ context.Context, id int) error {
	delete(f.admins, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminStore) TouchLastVerified(context.Context, int) error { return nil }

func newAdminService(store *fakeAdminStore) *AdminAuthService {
	codec := auth.NewCodec("test-secret")
	return NewAdminAuthService(store, codec, database.NewExecutor())
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeAdminStore()
	store.add("admin@fiihub.com.br", "senha-forte")
	svc := newAdminService(store)

	token, err := svc.Login(context.Background(), "admin@fiihub.com.br", "senha-forte")
	require.NoError(t, err)

	claims := auth.NewCodec("test-secret").Verify(token)
	require.NotNil(t, claims)
	require.Equal(t, "1", claims.Subject)
	require.Equal(t, "admin@fiihub.com.br", claims.Email)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	store := newFakeAdminStore()
	store.add("admin@fiihub.com.br", "senha-forte")
	svc := newAdminService(store)

	_, unknownErr := svc.Login(context.Background(), "nobody@fiihub.com.br", "x")
	_, wrongPassErr := svc.Login(context.Background(), "admin@fiihub.com.br", "errada")

	require.ErrorIs(t, unknownErr, utils.ErrInvalidCredentials)
	require.ErrorIs(t, wrongPassErr, utils.ErrInvalidCredentials)
	require.Equal(t, unknownErr, wrongPassErr)
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	store := newFakeAdminStore()
	store.createErr = &pq.Error{Code: "23505"}
	svc := newAdminService(store)

	_, err := svc.CreateAdmin(context.Background(), "dup@fiihub.com.br", "senha")
	require.ErrorIs(t, err, utils.ErrEmailTaken)
}

func TestCreateAdminHashesPassword(t *testing.T) {
	store := newFakeAdminStore()
	svc := newAdminService(store)

	admin, err := svc.CreateAdmin(context.Background(), "novo@fiihub.com.br", "senha-forte")
	require.NoError(t, err)
	require.NotEqual(t, "senha-forte", admin.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("senha-forte")))
}

func TestDeleteAdminRejectsSelfDeletion(t *testing.T) {
	store := newFakeAdminStore()
	a := store.add("a@fiihub.com.br", "x")
	store.add("b@fiihub.com.br", "x")
	svc := newAdminService(store)

	err := svc.DeleteAdmin(context.Background(), "1", a.ID)
	require.ErrorIs(t, err, utils.ErrSelfDeletion)
	require.Empty(t, store.deleted, "no delete may be issued after the self check fails")
}

func TestDeleteAdminRejectsLastAdmin(t *testing.T) {
	store := newFakeAdminStore()
	only := store.add("only@fiihub.com.br", "x")
	svc := newAdminService(store)

	err := svc.DeleteAdmin(context.Background(), "999", only.ID)
	require.ErrorIs(t, err, utils.ErrLastAdmin)
	require.Empty(t, store.deleted)
}

func TestDeleteAdminSuccess(t *testing.T) {
	store := newFakeAdminStore()
	store.add("a@fiihub.com.br", "x")
	target := store.add("b@fiihub.com.br", "x")
	svc := newAdminService(store)

	require.NoError(t, svc.DeleteAdmin(context.Background(), "1", target.ID))
	require.Equal(t, []int{target.ID}, store.deleted)
}
