package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/pickleball-portal/models"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrRegistrationUserInvalid = errors.New("registration references an unknown user")
)

// RegistrationRow is one flat row of the registration/players LEFT JOIN used
// by the dashboard reads. Player columns are nullable because a registration
// may have no players at all.
type RegistrationRow struct {
	RegistrationID int
	EventID        int
	LeaderName     string
	LeaderPhone    string
	UserID         int
	Username       sql.NullString

	PlayerID    sql.NullInt64
	Category    sql.NullString
	FullName    sql.NullString
	NickName    sql.NullString
	PhoneNumber sql.NullString
	Gender      sql.NullString
	DateOfBirth sql.NullString
	AvatarPath  sql.NullString
}

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	// Update rewrites the leader fields of a registration. When ownerID is
	// non-nil the update is scoped to that owner; zero rows affected maps to
	// ErrRegistrationNotFound in both the missing and the not-owned case.
	Update(ctx context.Context, exec SQLExecutor, reg *models.Registration, ownerID *int) error
	ListRowsByUser(ctx context.Context, userID int, category string) ([]RegistrationRow, error)
	ListRowsAll(ctx context.Context, category string) ([]RegistrationRow, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	query := `
		INSERT INTO registration (event_id, leader_name, leader_phone, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING registration_id, created_at`

	err := exec.QueryRowContext(ctx, query,
		reg.EventID,
		reg.LeaderName,
		reg.LeaderPhone,
		reg.UserID,
	).Scan(&reg.RegistrationID, &reg.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if pqErr.Constraint == "registration_user_id_fkey" {
				return ErrRegistrationUserInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresRegistrationRepository) Update(ctx context.Context, exec SQLExecutor, reg *models.Registration, ownerID *int) error {
	var (
		result sql.Result
		err    error
	)

	if ownerID != nil {
		query := `
			UPDATE registration
			SET leader_name = $1, leader_phone = $2
			WHERE registration_id = $3 AND user_id = $4`
		result, err = exec.ExecContext(ctx, query, reg.LeaderName, reg.LeaderPhone, reg.RegistrationID, *ownerID)
	} else {
		query := `
			UPDATE registration
			SET leader_name = $1, leader_phone = $2
			WHERE registration_id = $3`
		result, err = exec.ExecContext(ctx, query, reg.LeaderName, reg.LeaderPhone, reg.RegistrationID)
	}
	if err != nil {
		return err
	}

	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) ListRowsByUser(ctx context.Context, userID int, category string) ([]RegistrationRow, error) {
	query := `
		SELECT
			r.registration_id, r.event_id, r.leader_name, r.leader_phone, r.user_id,
			p.id, p.category, p.full_name, p.nick_name, p.phone_number, p.gender, p.date_of_birth, p.avatar_path
		FROM registration r
		LEFT JOIN players p ON r.registration_id = p.registration_id
		WHERE r.user_id = $1`

	args := []interface{}{userID}
	if category != "" {
		query += ` AND p.category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY r.registration_id, p.id`

	return r.queryRows(ctx, query, false, args...)
}

func (r *postgresRegistrationRepository) ListRowsAll(ctx context.Context, category string) ([]RegistrationRow, error) {
	query := `
		SELECT
			r.registration_id, r.event_id, r.leader_name, r.leader_phone, r.user_id, u.username,
			p.id, p.category, p.full_name, p.nick_name, p.phone_number, p.gender, p.date_of_birth, p.avatar_path
		FROM registration r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN players p ON r.registration_id = p.registration_id`

	args := []interface{}{}
	if category != "" {
		query += ` WHERE p.category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY r.registration_id, p.id`

	return r.queryRows(ctx, query, true, args...)
}

func (r *postgresRegistrationRepository) queryRows(ctx context.Context, query string, withUsername bool, args ...interface{}) ([]RegistrationRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]RegistrationRow, 0)
	for rows.Next() {
		var row RegistrationRow

		dest := []interface{}{
			&row.RegistrationID,
			&row.EventID,
			&row.LeaderName,
			&row.LeaderPhone,
			&row.UserID,
		}
		if withUsername {
			dest = append(dest, &row.Username)
		}
		dest = append(dest,
			&row.PlayerID,
			&row.Category,
			&row.FullName,
			&row.NickName,
			&row.PhoneNumber,
			&row.Gender,
			&row.DateOfBirth,
			&row.AvatarPath,
		)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
