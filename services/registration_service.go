package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Dosada05/pickleball-portal/live"
	"github.com/Dosada05/pickleball-portal/models"
	"github.com/Dosada05/pickleball-portal/repositories"
	"github.com/Dosada05/pickleball-portal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	// Every registration belongs to the single running tournament event.
	defaultEventID = 1

	maxAvatarSize = 5 * 1024 * 1024
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)

// UploadedFile decouples the service from multipart internals so validation
// and storage can be tested without an HTTP request.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// SubmissionInput carries one team submission: leader fields plus parallel
// player arrays. Files align positionally with FullNames.
type SubmissionInput struct {
	RegistrationID int // update only
	LeaderName     string
	LeaderPhone    string
	Category       string
	FullNames      []string
	NickNames      []string
	PhoneNumbers   []string
	Genders        []string
	DatesOfBirth   []string
	Files          []UploadedFile
}

type RegistrationService interface {
	Create(ctx context.Context, userID int, input SubmissionInput) (int, error)
	Update(ctx context.Context, userID int, isAdmin bool, input SubmissionInput) error
}

type registrationService struct {
	db         *sql.DB
	regRepo    repositories.RegistrationRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	hub        *live.Hub
	logger     *slog.Logger
}

func NewRegistrationService(
	db *sql.DB,
	regRepo repositories.RegistrationRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		db:         db,
		regRepo:    regRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		hub:        hub,
		logger:     logger,
	}
}

func (s *registrationService) Create(ctx context.Context, userID int, input SubmissionInput) (int, error) {
	if errs := ValidateSubmission(input, false); len(errs) > 0 {
		return 0, &ValidationError{Errors: errs}
	}

	avatarKeys, err := s.storeAvatars(ctx, input.Files)
	if err != nil {
		return 0, err
	}

	reg := &models.Registration{
		EventID:     defaultEventID,
		LeaderName:  input.LeaderName,
		LeaderPhone: input.LeaderPhone,
		UserID:      userID,
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.regRepo.Create(ctx, tx, reg); err != nil {
			return fmt.Errorf("failed to create registration: %w", err)
		}
		return s.insertPlayers(ctx, tx, reg.RegistrationID, input, avatarKeys)
	})
	if err != nil {
		return 0, err
	}

	s.hub.Broadcast(live.EventRegistrationCreated, map[string]interface{}{
		"registration_id": reg.RegistrationID,
		"leader_name":     reg.LeaderName,
		"category":        input.Category,
		"player_count":    len(input.FullNames),
	})

	return reg.RegistrationID, nil
}

func (s *registrationService) Update(ctx context.Context, userID int, isAdmin bool, input SubmissionInput) error {
	if errs := ValidateSubmission(input, true); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	avatarKeys, err := s.storeAvatars(ctx, input.Files)
	if err != nil {
		return err
	}

	reg := &models.Registration{
		RegistrationID: input.RegistrationID,
		LeaderName:     input.LeaderName,
		LeaderPhone:    input.LeaderPhone,
	}

	// Non-admins may only touch registrations they own; the scoped WHERE
	// makes "someone else's" indistinguishable from "missing".
	var ownerID *int
	if !isAdmin {
		ownerID = &userID
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.regRepo.Update(ctx, tx, reg, ownerID); err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrRegistrationNotFound
			}
			return fmt.Errorf("failed to update registration: %w", err)
		}
		// Full replace: existing players go away, submitted ones come back.
		if err := s.playerRepo.DeleteByRegistration(ctx, tx, reg.RegistrationID); err != nil {
			return fmt.Errorf("failed to delete existing players: %w", err)
		}
		return s.insertPlayers(ctx, tx, reg.RegistrationID, input, avatarKeys)
	})
	if err != nil {
		return err
	}

	s.hub.Broadcast(live.EventRegistrationUpdated, map[string]interface{}{
		"registration_id": reg.RegistrationID,
		"leader_name":     reg.LeaderName,
		"category":        input.Category,
		"player_count":    len(input.FullNames),
	})

	return nil
}

// ValidateSubmission checks every rule and returns the full list of
// violations. requireID additionally demands the registration identifier and
// makes uploaded images optional (the update flow).
func ValidateSubmission(input SubmissionInput, requireID bool) []string {
	var errs []string

	if utf8.RuneCountInString(strings.TrimSpace(input.LeaderName)) < 2 {
		errs = append(errs, "leader full name must be at least 2 characters")
	}
	if !phonePattern.MatchString(stripWhitespace(input.LeaderPhone)) {
		errs = append(errs, "leader phone number must contain 10-11 digits")
	}
	if input.Category == "" {
		errs = append(errs, "category is required")
	}
	if requireID && input.RegistrationID <= 0 {
		errs = append(errs, "team id is required")
	}

	if len(input.FullNames) == 0 {
		errs = append(errs, "at least one player is required")
	} else {
		for i, name := range input.FullNames {
			if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
				errs = append(errs, fmt.Sprintf("player %d: full name must be at least 2 characters", i+1))
			}
		}
	}

	if len(input.PhoneNumbers) == 0 {
		errs = append(errs, "at least one player is required")
	} else {
		for i, phone := range input.PhoneNumbers {
			if !phonePattern.MatchString(stripWhitespace(phone)) {
				errs = append(errs, fmt.Sprintf("player %d: phone number must contain 10-11 digits", i+1))
			}
		}
	}

	if len(input.Files) == 0 {
		if !requireID {
			errs = append(errs, "at least one player image is required")
		}
	} else {
		for i, file := range input.Files {
			if !strings.HasPrefix(file.ContentType, "image/") {
				errs = append(errs, fmt.Sprintf("player %d: file must be an image", i+1))
			}
			if file.Size > maxAvatarSize {
				errs = append(errs, fmt.Sprintf("player %d: file is too large (max 5MB)", i+1))
			}
		}
	}

	return errs
}

// storeAvatars writes all uploaded files to storage concurrently and returns
// the generated keys in submission order.
func (s *registrationService) storeAvatars(ctx context.Context, files []UploadedFile) ([]string, error) {
	keys := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		keys[i] = storage.GenerateKey(file.Filename)

		key, file := keys[i], file
		g.Go(func() error {
			reader, err := file.Open()
			if err != nil {
				return fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
			}
			defer reader.Close()

			if _, err := s.uploader.Upload(gctx, key, file.ContentType, reader); err != nil {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}
	return keys, nil
}

func (s *registrationService) insertPlayers(ctx context.Context, tx *sql.Tx, registrationID int, input SubmissionInput, avatarKeys []string) error {
	for i, name := range input.FullNames {
		player := &models.Player{
			RegistrationID: registrationID,
			Category:       input.Category,
			FullName:       name,
			NickName:       optionalAt(input.NickNames, i),
			PhoneNumber:    valueAt(input.PhoneNumbers, i),
			Gender:         optionalAt(input.Genders, i),
			DateOfBirth:    optionalAt(input.DatesOfBirth, i),
		}
		if i < len(avatarKeys) {
			key := avatarKeys[i]
			player.AvatarPath = &key
		}

		if err := s.playerRepo.Insert(ctx, tx, player); err != nil {
			return fmt.Errorf("failed to insert player %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *registrationService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to roll back transaction", slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func optionalAt(values []string, i int) *string {
	if i >= len(values) || values[i] == "" {
		return nil
	}
	v := values[i]
	return &v
}

func valueAt(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return values[i]
}
