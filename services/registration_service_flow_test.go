package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/pickleball-portal/live"
	"github.com/Dosada05/pickleball-portal/models"
	"github.com/Dosada05/pickleball-portal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRegistrationRepo struct {
	createdID int
	createErr error
	updateErr error

	created     *models.Registration
	updated     *models.Registration
	lastOwnerID *int
}

func (r *scriptedRegistrationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, reg *models.Registration) error {
	if r.createErr != nil {
		return r.createErr
	}
	reg.RegistrationID = r.createdID
	copied := *reg
	r.created = &copied
	return nil
}

func (r *scriptedRegistrationRepo) Update(ctx context.Context, exec repositories.SQLExecutor, reg *models.Registration, ownerID *int) error {
	r.lastOwnerID = ownerID
	copied := *reg
	r.updated = &copied
	return r.updateErr
}

func (r *scriptedRegistrationRepo) ListRowsByUser(ctx context.Context, userID int, category string) ([]repositories.RegistrationRow, error) {
	return nil, nil
}

func (r *scriptedRegistrationRepo) ListRowsAll(ctx context.Context, category string) ([]repositories.RegistrationRow, error) {
	return nil, nil
}

type recordingPlayerRepo struct {
	ops       []string
	inserted  []models.Player
	insertErr error
}

func (r *recordingPlayerRepo) Insert(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.ops = append(r.ops, "insert")
	copied := *player
	r.inserted = append(r.inserted, copied)
	return nil
}

func (r *recordingPlayerRepo) DeleteByRegistration(ctx context.Context, exec repositories.SQLExecutor, registrationID int) error {
	r.ops = append(r.ops, "delete")
	return nil
}

func startHub(t *testing.T) (*live.Hub, *live.Client) {
	t.Helper()

	hub := live.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	client := &live.Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- client
	return hub, client
}

func receiveEvent(t *testing.T, client *live.Client) (string, int) {
	t.Helper()

	select {
	case raw := <-client.Send:
		var event struct {
			Type    string `json:"type"`
			Payload struct {
				RegistrationID int `json:"registration_id"`
			} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &event))
		return event.Type, event.Payload.RegistrationID
	case <-time.After(time.Second):
		t.Fatal("no live event received")
		return "", 0
	}
}

func requireNoEvent(t *testing.T, client *live.Client) {
	t.Helper()

	select {
	case <-client.Send:
		t.Fatal("unexpected live event")
	case <-time.After(50 * time.Millisecond):
	}
}

func newFlowService(t *testing.T, regRepo *scriptedRegistrationRepo, playerRepo *recordingPlayerRepo, hub *live.Hub) (RegistrationService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewRegistrationService(db, regRepo, playerRepo, newRecordingUploader(), hub,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, mock
}

func TestCreate_CommitsRegistrationWithPlayers(t *testing.T) {
	regRepo := &scriptedRegistrationRepo{createdID: 77}
	playerRepo := &recordingPlayerRepo{}
	hub, client := startHub(t)

	svc, mock := newFlowService(t, regRepo, playerRepo, hub)
	mock.ExpectBegin()
	mock.ExpectCommit()

	id, err := svc.Create(context.Background(), 9, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, 77, id)

	require.NotNil(t, regRepo.created)
	assert.Equal(t, 9, regRepo.created.UserID)
	assert.Equal(t, defaultEventID, regRepo.created.EventID)

	require.Len(t, playerRepo.inserted, 2)
	for _, player := range playerRepo.inserted {
		assert.Equal(t, 77, player.RegistrationID)
		require.NotNil(t, player.AvatarPath)
	}

	require.NoError(t, mock.ExpectationsWereMet())

	eventType, regID := receiveEvent(t, client)
	assert.Equal(t, live.EventRegistrationCreated, eventType)
	assert.Equal(t, 77, regID)
}

func TestCreate_RollsBackWhenPlayerInsertFails(t *testing.T) {
	regRepo := &scriptedRegistrationRepo{createdID: 77}
	playerRepo := &recordingPlayerRepo{insertErr: errors.New("insert exploded")}
	hub, client := startHub(t)

	svc, mock := newFlowService(t, regRepo, playerRepo, hub)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, validSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert exploded")

	require.NoError(t, mock.ExpectationsWereMet())
	requireNoEvent(t, client)
}

func TestUpdate_DeletesExistingPlayersBeforeReinserting(t *testing.T) {
	regRepo := &scriptedRegistrationRepo{}
	playerRepo := &recordingPlayerRepo{}
	hub, client := startHub(t)

	svc, mock := newFlowService(t, regRepo, playerRepo, hub)
	mock.ExpectBegin()
	mock.ExpectCommit()

	input := validSubmission()
	input.RegistrationID = 42
	input.Files = nil

	require.NoError(t, svc.Update(context.Background(), 9, false, input))

	assert.Equal(t, []string{"delete", "insert", "insert"}, playerRepo.ops)

	require.NotNil(t, regRepo.updated)
	assert.Equal(t, 42, regRepo.updated.RegistrationID)
	require.NotNil(t, regRepo.lastOwnerID)
	assert.Equal(t, 9, *regRepo.lastOwnerID)

	require.NoError(t, mock.ExpectationsWereMet())

	eventType, regID := receiveEvent(t, client)
	assert.Equal(t, live.EventRegistrationUpdated, eventType)
	assert.Equal(t, 42, regID)
}

func TestUpdate_AdminBypassesOwnerScope(t *testing.T) {
	regRepo := &scriptedRegistrationRepo{}
	playerRepo := &recordingPlayerRepo{}
	hub, _ := startHub(t)

	svc, mock := newFlowService(t, regRepo, playerRepo, hub)
	mock.ExpectBegin()
	mock.ExpectCommit()

	input := validSubmission()
	input.RegistrationID = 42
	input.Files = nil

	require.NoError(t, svc.Update(context.Background(), 9, true, input))
	assert.Nil(t, regRepo.lastOwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingRegistrationRollsBack(t *testing.T) {
	regRepo := &scriptedRegistrationRepo{updateErr: repositories.ErrRegistrationNotFound}
	playerRepo := &recordingPlayerRepo{}
	hub, client := startHub(t)

	svc, mock := newFlowService(t, regRepo, playerRepo, hub)
	mock.ExpectBegin()
	mock.ExpectRollback()

	input := validSubmission()
	input.RegistrationID = 42
	input.Files = nil

	err := svc.Update(context.Background(), 9, false, input)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	assert.Empty(t, playerRepo.ops)
	require.NoError(t, mock.ExpectationsWereMet())
	requireNoEvent(t, client)
}
