package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/platform/crypto"
)

const selectStudent = `
SELECT s.nis, s.nama_lengkap, COALESCE(s.no_telepon, ''), COALESCE(s.nik_orangtua, ''),
       COALESCE(u.email, ''), u.created_at
FROM siswa s
JOIN users u ON s.user_id = u.id`

// StudentRepo is the relational student directory (siswa joined with users).
// Phone and parent NIK are encrypted at rest by cipher.
type StudentRepo struct {
	pool   *pgxpool.Pool
	cipher crypto.Cipher
}

var _ domain.StudentDirectory = (*StudentRepo)(nil)

// NewStudentRepo creates the repository. A nil cipher stores plaintext.
func NewStudentRepo(pool *pgxpool.Pool, cipher crypto.Cipher) *StudentRepo {
	if cipher == nil {
		cipher = crypto.Plaintext{}
	}
	return &StudentRepo{pool: pool, cipher: cipher}
}

func (r *StudentRepo) scanStudent(row pgx.Row) (*domain.StudentRecord, error) {
	var rec domain.StudentRecord
	if err := row.Scan(&rec.NIS, &rec.FullName, &rec.Phone, &rec.ParentNIK, &rec.Email, &rec.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if rec.Phone, err = r.cipher.Decrypt(rec.Phone); err != nil {
		return nil, fmt.Errorf("failed to decrypt phone of student %s: %w", rec.NIS, err)
	}
	if rec.ParentNIK, err = r.cipher.Decrypt(rec.ParentNIK); err != nil {
		return nil, fmt.Errorf("failed to decrypt parent NIK of student %s: %w", rec.NIS, err)
	}
	return &rec, nil
}

func (r *StudentRepo) sealPII(rec domain.StudentRecord) (phone, parentNIK string, err error) {
	if phone, err = r.cipher.Encrypt(strings.TrimSpace(rec.Phone)); err != nil {
		return "", "", fmt.Errorf("failed to encrypt phone: %w", err)
	}
	if parentNIK, err = r.cipher.Encrypt(strings.TrimSpace(rec.ParentNIK)); err != nil {
		return "", "", fmt.Errorf("failed to encrypt parent NIK: %w", err)
	}
	return phone, parentNIK, nil
}

func (r *StudentRepo) GetByNIS(ctx context.Context, nis string) (*domain.StudentRecord, error) {
	rec, err := r.scanStudent(r.pool.QueryRow(ctx, selectStudent+" WHERE s.nis = $1", strings.TrimSpace(nis)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by NIS: %w", err)
	}
	return rec, nil
}

func (r *StudentRepo) List(ctx context.Context) ([]domain.StudentRecord, error) {
	rows, err := r.pool.Query(ctx, selectStudent+" ORDER BY s.nis")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var records []domain.StudentRecord
	for rows.Next() {
		rec, err := r.scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return records, nil
}

// Upsert inserts the student and its user account, or updates both when the
// NIS already exists. CreatedAt is owned by the database.
func (r *StudentRepo) Upsert(ctx context.Context, rec domain.StudentRecord) (*domain.StudentRecord, error) {
	nis := strings.TrimSpace(rec.NIS)
	if nis == "" {
		return nil, errors.New("student NIS must not be empty")
	}

	phone, parentNIK, err := r.sealPII(rec)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `SELECT user_id FROM siswa WHERE nis = $1 FOR UPDATE`, nis).Scan(&userID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := tx.QueryRow(ctx, `INSERT INTO users (email) VALUES ($1) RETURNING id`, nullIfEmpty(rec.Email)).Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO siswa (nis, user_id, nama_lengkap, no_telepon, nik_orangtua) VALUES ($1, $2, $3, $4, $5)`,
			nis, userID, rec.FullName, nullIfEmpty(phone), nullIfEmpty(parentNIK))
		if err != nil {
			return nil, fmt.Errorf("failed to create student: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up student: %w", err)
	default:
		if _, err := tx.Exec(ctx, `UPDATE users SET email = $2 WHERE id = $1`, userID, nullIfEmpty(rec.Email)); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE siswa SET nama_lengkap = $2, no_telepon = $3, nik_orangtua = $4, updated_at = now() WHERE nis = $1`,
			nis, rec.FullName, nullIfEmpty(phone), nullIfEmpty(parentNIK))
		if err != nil {
			return nil, fmt.Errorf("failed to update student: %w", err)
		}
	}

	saved, err := r.scanStudent(tx.QueryRow(ctx, selectStudent+" WHERE s.nis = $1", nis))
	if err != nil {
		return nil, fmt.Errorf("failed to read back student: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return saved, nil
}

func nullIfEmpty(s string) any {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return s
}
