package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/events"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/models"
	"github.com/noah-isme/studypath-api/internal/repository"
	"github.com/noah-isme/studypath-api/internal/session"
)

func TestAccountServiceSignupCheckRules(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAccountService(repository.NewAccountRepository(db), validator.New(), session.NewBroker(), nil, time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.SignupCheck(ctx, dto.SignupCheckRequest{Email: "not-an-email", Password: "abc"})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, []string{
		"Please enter a valid email address",
		"Password must be at least 6 characters long",
		"Password must contain at least one uppercase letter",
		"Password must contain at least one number",
	}, validationErr.Errors)

	ok, err := svc.SignupCheck(ctx, dto.SignupCheckRequest{Email: " Ada@Example.com ", Password: "Secret1"})
	require.NoError(t, err)
	require.True(t, ok.Allowed)
	require.Equal(t, "ada@example.com", ok.Email)
}

func TestAccountServiceDeleteStartsCooldown(t *testing.T) {
	db := setupServiceDB(t)
	goals := repository.NewWeeklyGoalRepository(db)
	tasks := repository.NewTaskRepository(db)
	ctx := context.Background()

	imports := NewImportService(goals, tasks, importer.NewValidator(nil), nil, nil, zerolog.Nop())
	_, err := imports.ImportJSON(ctx, "user-1", []byte(twoWeekRoadmap))
	require.NoError(t, err)
	_, err = imports.ImportJSON(ctx, "user-2", []byte(twoWeekRoadmap))
	require.NoError(t, err)

	broker := session.NewBroker()
	var received []session.Event
	broker.Subscribe(func(event session.Event) { received = append(received, event) })

	publisher := &recordingPublisher{}
	svc := NewAccountService(repository.NewAccountRepository(db), validator.New(), broker, publisher, time.Hour, zerolog.Nop())
	impl := svc.(*accountService)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return now }

	current := session.Session{UserID: "user-1", Email: "Ada@example.com"}
	signedIn, err := svc.SignIn(ctx, current)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", signedIn.Email)

	result, err := svc.Delete(ctx, signedIn)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Account deleted successfully", result.Message)
	require.Equal(t, "user-1", result.UserID)

	require.Zero(t, countRows(t, db, &models.WeeklyGoal{}, "user-1"))
	require.Zero(t, countRows(t, db, &models.Task{}, "user-1"))
	require.EqualValues(t, 2, countRows(t, db, &models.WeeklyGoal{}, "user-2"))

	status, err := svc.CooldownStatus(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.True(t, status.InCooldown)

	_, err = svc.SignupCheck(ctx, dto.SignupCheckRequest{Email: "ada@example.com", Password: "Secret1"})
	require.ErrorIs(t, err, ErrEmailInCooldown)

	_, err = svc.SignIn(ctx, current)
	require.ErrorIs(t, err, ErrEmailInCooldown)

	impl.now = func() time.Time { return now.Add(2 * time.Hour) }
	status, err = svc.CooldownStatus(ctx, "ada@example.com")
	require.NoError(t, err)
	require.False(t, status.InCooldown)

	require.Len(t, received, 2)
	require.Equal(t, session.SignedIn, received[0].Kind)
	require.Equal(t, session.Deleted, received[1].Kind)
	require.Equal(t, []string{events.AccountDeleted}, publisher.names())
}

func TestAccountServiceRequiresSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAccountService(repository.NewAccountRepository(db), validator.New(), nil, nil, 0, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Delete(ctx, session.Session{})
	require.ErrorIs(t, err, ErrSessionRequired)
	require.ErrorIs(t, svc.SignOut(ctx, session.Session{}), ErrSessionRequired)
	require.NoError(t, svc.SignOut(ctx, session.Session{UserID: "user-1"}))

	_, err = svc.CooldownStatus(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
