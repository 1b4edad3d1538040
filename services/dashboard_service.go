package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/pickleball-portal/models"
	"github.com/Dosada05/pickleball-portal/repositories"
	"github.com/Dosada05/pickleball-portal/storage"
)

type DashboardService interface {
	// UserRegistrations returns the caller's registrations grouped with their
	// players. Category "all" or empty disables filtering.
	UserRegistrations(ctx context.Context, userID int, category string) ([]models.RegistrationDetail, error)
	// AllRegistrations is the admin view across every user, including the
	// owning username.
	AllRegistrations(ctx context.Context, category string) ([]models.RegistrationDetail, error)
}

type dashboardService struct {
	regRepo  repositories.RegistrationRepository
	uploader storage.FileUploader
}

func NewDashboardService(regRepo repositories.RegistrationRepository, uploader storage.FileUploader) DashboardService {
	return &dashboardService{regRepo: regRepo, uploader: uploader}
}

func (s *dashboardService) UserRegistrations(ctx context.Context, userID int, category string) ([]models.RegistrationDetail, error) {
	rows, err := s.regRepo.ListRowsByUser(ctx, userID, normalizeCategory(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return s.groupRows(rows, false), nil
}

func (s *dashboardService) AllRegistrations(ctx context.Context, category string) ([]models.RegistrationDetail, error) {
	rows, err := s.regRepo.ListRowsAll(ctx, normalizeCategory(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return s.groupRows(rows, true), nil
}

// groupRows folds the flat LEFT JOIN rows into registration→players
// structures, preserving first-seen registration order. Rows without a player
// (null join) still yield a registration entry with an empty player list.
func (s *dashboardService) groupRows(rows []repositories.RegistrationRow, withOwner bool) []models.RegistrationDetail {
	grouped := make([]models.RegistrationDetail, 0)
	index := make(map[int]int)

	for _, row := range rows {
		pos, ok := index[row.RegistrationID]
		if !ok {
			detail := models.RegistrationDetail{
				RegistrationID: row.RegistrationID,
				EventID:        row.EventID,
				LeaderName:     row.LeaderName,
				LeaderPhone:    row.LeaderPhone,
				Players:        make([]models.Player, 0),
			}
			if withOwner {
				detail.UserID = row.UserID
				detail.Username = row.Username.String
			}
			grouped = append(grouped, detail)
			pos = len(grouped) - 1
			index[row.RegistrationID] = pos
		}

		if !row.PlayerID.Valid {
			continue
		}

		player := models.Player{
			ID:             int(row.PlayerID.Int64),
			RegistrationID: row.RegistrationID,
			Category:       row.Category.String,
			FullName:       row.FullName.String,
			PhoneNumber:    row.PhoneNumber.String,
			NickName:       nullableString(row.NickName),
			Gender:         nullableString(row.Gender),
			DateOfBirth:    nullableString(row.DateOfBirth),
		}
		if row.AvatarPath.Valid && row.AvatarPath.String != "" {
			url := s.uploader.GetPublicURL(row.AvatarPath.String)
			player.AvatarPath = &url
		}
		grouped[pos].Players = append(grouped[pos].Players, player)
	}

	return grouped
}
