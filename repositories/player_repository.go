package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/pickleball-portal/models"
	"github.com/lib/pq"
)

var ErrPlayerRegistrationInvalid = errors.New("player references an unknown registration")

type PlayerRepository interface {
	Insert(ctx context.Context, exec SQLExecutor, player *models.Player) error
	DeleteByRegistration(ctx context.Context, exec SQLExecutor, registrationID int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Insert(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (registration_id, category, full_name, nick_name, phone_number, gender, date_of_birth, avatar_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		player.RegistrationID,
		player.Category,
		player.FullName,
		player.NickName,
		player.PhoneNumber,
		player.Gender,
		player.DateOfBirth,
		player.AvatarPath,
	).Scan(&player.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if pqErr.Constraint == "players_registration_id_fkey" {
				return ErrPlayerRegistrationInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) DeleteByRegistration(ctx context.Context, exec SQLExecutor, registrationID int) error {
	query := `DELETE FROM players WHERE registration_id = $1`
	_, err := exec.ExecContext(ctx, query, registrationID)
	return err
}
