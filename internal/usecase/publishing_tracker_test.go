package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

func TestPublishingTracker_PublishesAddedExercise(t *testing.T) {
	pub := &fakePublisher{}
	inner := NewMemoryTracker(discardLogger(), WithClock(fixedClock(submittedAt)))
	tracker := NewPublishingTracker(inner, pub, "app", discardLogger(), WithClock(fixedClock(submittedAt)))
	ctx := context.Background()

	u, err := tracker.CreateUser(ctx, CreateUserRequest{Username: "alice"})
	require.NoError(t, err)

	_, err = tracker.AddExercise(ctx, AddExerciseRequest{UserID: u.ID, Description: "run", Duration: "30", Date: "2024-01-15"})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, payloads.ExerciseAddedPayload{
		AppID:       "app",
		UserID:      u.ID,
		Username:    "alice",
		Description: "run",
		Duration:    30,
		Date:        "2024-01-15",
		AddedAt:     submittedAt,
	}, pub.published[0])
}

func TestPublishingTracker_SkipsFailedAdds(t *testing.T) {
	pub := &fakePublisher{}
	tracker := NewPublishingTracker(NewMemoryTracker(discardLogger()), pub, "app", discardLogger())

	_, err := tracker.AddExercise(context.Background(), AddExerciseRequest{UserID: "missing", Description: "run", Duration: "10"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Empty(t, pub.published)
}

func TestPublishingTracker_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	tracker := NewPublishingTracker(NewMemoryTracker(discardLogger()), pub, "app", discardLogger())
	ctx := context.Background()

	u, err := tracker.CreateUser(ctx, CreateUserRequest{Username: "alice"})
	require.NoError(t, err)

	entry, err := tracker.AddExercise(ctx, AddExerciseRequest{UserID: u.ID, Description: "run", Duration: "10"})
	require.NoError(t, err)
	assert.Equal(t, "run", entry.Description)

	log, err := tracker.GetLog(ctx, LogRequest{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, log.Count)
}

func TestLogArchiver_UploadsSnapshot(t *testing.T) {
	tracker := NewMemoryTracker(discardLogger())
	files := &fakeFiles{}
	archiver := NewLogArchiver(tracker, files, "app", discardLogger())
	ctx := context.Background()

	u, err := tracker.CreateUser(ctx, CreateUserRequest{Username: "alice"})
	require.NoError(t, err)
	_, err = tracker.AddExercise(ctx, AddExerciseRequest{UserID: u.ID, Description: "run", Duration: "30", Date: "2024-01-15"})
	require.NoError(t, err)

	err = archiver.HandleExerciseAdded(ctx, payloads.ExerciseAddedPayload{AppID: "app", UserID: u.ID})
	require.NoError(t, err)

	require.Len(t, files.uploads, 1)
	up := files.uploads[0]
	assert.Equal(t, "logs/app/"+u.ID+".json", up.key)
	assert.Equal(t, "application/json", up.contentType)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(up.body, &snapshot))
	assert.Equal(t, "alice", snapshot["username"])
	assert.EqualValues(t, 1, snapshot["count"])
	entries := snapshot["log"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mon Jan 15 2024", entries[0].(map[string]any)["date"])
}

func TestLogArchiver_DropsUnrecoverableEvents(t *testing.T) {
	files := &fakeFiles{}
	archiver := NewLogArchiver(NewMemoryTracker(discardLogger()), files, "app", discardLogger())
	ctx := context.Background()

	assert.NoError(t, archiver.HandleExerciseAdded(ctx, payloads.ExerciseAddedPayload{AppID: "other", UserID: "u1"}))
	assert.NoError(t, archiver.HandleExerciseAdded(ctx, payloads.ExerciseAddedPayload{AppID: "app", UserID: "missing"}))
	assert.Empty(t, files.uploads)
}

func TestLogArchiver_UploadFailureRequeues(t *testing.T) {
	tracker := NewMemoryTracker(discardLogger())
	files := &fakeFiles{err: errors.New("bucket missing")}
	archiver := NewLogArchiver(tracker, files, "app", discardLogger())
	ctx := context.Background()

	u, err := tracker.CreateUser(ctx, CreateUserRequest{Username: "alice"})
	require.NoError(t, err)

	err = archiver.HandleExerciseAdded(ctx, payloads.ExerciseAddedPayload{AppID: "app", UserID: u.ID})
	assert.ErrorContains(t, err, "bucket missing")
}

func TestArchiveKey(t *testing.T) {
	assert.Equal(t, "logs/demo/u-1.json", ArchiveKey("demo", "u-1"))
}
