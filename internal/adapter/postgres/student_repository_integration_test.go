package postgres

import (
	"context"
	"testing"

	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/platform/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentRepo_UpsertInsert(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewStudentRepo(pool, nil)
	ctx := context.Background()

	rec, err := repo.Upsert(ctx, domain.StudentRecord{
		NIS:       " 20230101 ",
		FullName:  "Siswa Satu",
		Phone:     "08123",
		ParentNIK: "3201010101010001",
		Email:     "satu@mindagrow.id",
	})
	require.NoError(t, err)

	assert.Equal(t, "20230101", rec.NIS)
	assert.Equal(t, "Siswa Satu", rec.FullName)
	assert.Equal(t, "08123", rec.Phone)
	assert.Equal(t, "3201010101010001", rec.ParentNIK)
	assert.Equal(t, "satu@mindagrow.id", rec.Email)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestStudentRepo_UpsertUpdate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewStudentRepo(pool, nil)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, domain.StudentRecord{NIS: "20230101", FullName: "Siswa Satu", Email: "old@mindagrow.id"})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, domain.StudentRecord{NIS: "20230101", FullName: "Siswa Satu Baru", Email: "new@mindagrow.id"})
	require.NoError(t, err)

	assert.Equal(t, "Siswa Satu Baru", second.FullName)
	assert.Equal(t, "new@mindagrow.id", second.Email)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	var users int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&users))
	assert.Equal(t, 1, users, "update must not create a second user")
}

func TestStudentRepo_UpsertEmptyNIS(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewStudentRepo(pool, nil)

	_, err := repo.Upsert(context.Background(), domain.StudentRecord{NIS: "  ", FullName: "x"})
	assert.Error(t, err)
}

func TestStudentRepo_GetByNIS(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewStudentRepo(pool, nil)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, domain.StudentRecord{NIS: "20230102", FullName: "Siswa Dua"})
	require.NoError(t, err)

	rec, err := repo.GetByNIS(ctx, "20230102")
	require.NoError(t, err)
	assert.Equal(t, "Siswa Dua", rec.FullName)
	assert.Empty(t, rec.Email, "NULL columns scan as empty strings")
	assert.Empty(t, rec.Phone)
}

func TestStudentRepo_GetByNIS_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewStudentRepo(pool, nil)

	_, err := repo.GetByNIS(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrStudentNotFound)
}

func TestStudentRepo_ListOrderedByNIS(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewStudentRepo(pool, nil)
	ctx := context.Background()

	for _, nis := range []string{"20230103", "20230101", "20230102"} {
		_, err := repo.Upsert(ctx, domain.StudentRecord{NIS: nis, FullName: "Siswa " + nis})
		require.NoError(t, err)
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "20230101", records[0].NIS)
	assert.Equal(t, "20230102", records[1].NIS)
	assert.Equal(t, "20230103", records[2].NIS)
}

func TestStudentRepo_ListEmpty(t *testing.T) {
	pool := setupTestDB(t)

	records, err := NewStudentRepo(pool, nil).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStudentRepo_EncryptsContactsAtRest(t *testing.T) {
	pool := setupTestDB(t)
	cipher, err := crypto.NewAESGCM("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	repo := NewStudentRepo(pool, cipher)
	ctx := context.Background()

	saved, err := repo.Upsert(ctx, domain.StudentRecord{
		NIS:       "20230104",
		FullName:  "Siswa Empat",
		Phone:     "081234567890",
		ParentNIK: "3201010101010004",
	})
	require.NoError(t, err)
	assert.Equal(t, "081234567890", saved.Phone)
	assert.Equal(t, "3201010101010004", saved.ParentNIK)

	var rawPhone, rawNIK string
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT no_telepon, nik_orangtua FROM siswa WHERE nis = $1", "20230104").Scan(&rawPhone, &rawNIK))
	assert.NotContains(t, rawPhone, "081234567890")
	assert.NotContains(t, rawNIK, "3201010101010004")

	got, err := repo.GetByNIS(ctx, "20230104")
	require.NoError(t, err)
	assert.Equal(t, "3201010101010004", got.ParentNIK)

	// A repository with another key cannot read the record.
	_, err = NewStudentRepo(pool, crypto.Plaintext{}).GetByNIS(ctx, "20230104")
	require.NoError(t, err, "plaintext reads return the stored hex unchanged")
	other, err := crypto.NewAESGCM("fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	_, err = NewStudentRepo(pool, other).GetByNIS(ctx, "20230104")
	assert.Error(t, err)
}
