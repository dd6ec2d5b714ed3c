package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

type fakeUserRepo struct {
	users []*entities.User
}

func (f *fakeUserRepo) Create(context.Context, *entities.User) error { return nil }
func (f *fakeUserRepo) GetByID(context.Context, uuid.UUID) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) Update(context.Context, *entities.User) error { return nil }
func (f *fakeUserRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (f *fakeUserRepo) ListAutoReplanUsers(context.Context) ([]*entities.User, error) {
	return f.users, nil
}

type fakeRoadmapService struct {
	regenerated []uuid.UUID
	err         error
}

func (f *fakeRoadmapService) Generate(context.Context, uuid.UUID, ports.GenerateRoadmapRequest) (*ports.RoadmapResponse, error) {
	return nil, nil
}

func (f *fakeRoadmapService) Regenerate(_ context.Context, userID uuid.UUID) (*ports.ReplanResponse, error) {
	f.regenerated = append(f.regenerated, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &ports.ReplanResponse{}, nil
}

func TestRunOnceReplansOptedInUsers(t *testing.T) {
	users := []*entities.User{
		{ID: uuid.New(), AutoReplan: true},
		{ID: uuid.New(), AutoReplan: true},
	}
	roadmap := &fakeRoadmapService{}
	s := New(&fakeUserRepo{users: users}, nil, roadmap, logger.NewNop(), time.UTC, 4)

	s.RunOnce(context.Background())

	assert.Equal(t, []uuid.UUID{users[0].ID, users[1].ID}, roadmap.regenerated)
}

func TestRunOnceToleratesPerUserFailures(t *testing.T) {
	users := []*entities.User{{ID: uuid.New()}, {ID: uuid.New()}}
	roadmap := &fakeRoadmapService{err: entities.ErrNoActiveGoal}
	s := New(&fakeUserRepo{users: users}, nil, roadmap, logger.NewNop(), time.UTC, 4)

	s.RunOnce(context.Background())

	assert.Len(t, roadmap.regenerated, 2, "a failing user does not stop the pass")
}

func TestTickRunsOncePerDay(t *testing.T) {
	user := &entities.User{ID: uuid.New()}
	roadmap := &fakeRoadmapService{}
	s := New(&fakeUserRepo{users: []*entities.User{user}}, nil, roadmap, logger.NewNop(), time.UTC, 4)

	at := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	s.tick(context.Background())
	at = at.Add(time.Minute)
	s.tick(context.Background())
	assert.Len(t, roadmap.regenerated, 1, "only the first tick in the hour runs the pass")

	// Outside the configured hour nothing happens.
	at = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.tick(context.Background())
	assert.Len(t, roadmap.regenerated, 1)

	// The next day runs again.
	at = time.Date(2025, 6, 2, 4, 30, 0, 0, time.UTC)
	s.tick(context.Background())
	assert.Len(t, roadmap.regenerated, 2)
}
