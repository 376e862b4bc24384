package battles_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
	"github.com/KirkDiggler/battle-engine/internal/repositories/battles"
	mockbattles "github.com/KirkDiggler/battle-engine/internal/repositories/battles/mock"
)

type RedisRepoTestSuite struct {
	suite.Suite
	ctx          context.Context
	client       *redis.Client
	mock         redismock.ClientMock
	mockCtrl     *gomock.Controller
	timeProvider *mockbattles.MockTimeProvider
	repo         battles.Repository
	now          time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mockbattles.NewMockTimeProvider(s.mockCtrl)
	s.repo = battles.NewRedis(s.client, s.timeProvider)
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) snapshot(id string) *battles.Snapshot {
	return &battles.Snapshot{
		ID:    id,
		Turn:  3,
		Phase: "turn_end",
		Entities: []battles.EntitySnapshot{
			{ID: "hero", Name: "Hero", Side: "player", HP: 80, MaxHP: 105, MP: 60, MaxMP: 80, Alive: true,
				Stages: map[string]int{"attack": 1}, Effects: []string{"Guard"}},
		},
	}
}

func (s *RedisRepoTestSuite) encoded(snap *battles.Snapshot) string {
	data, err := json.Marshal(snap)
	s.Require().NoError(err)
	return string(data)
}

func (s *RedisRepoTestSuite) TestSave() {
	snap := s.snapshot("b1")
	s.timeProvider.EXPECT().Now().Return(s.now)

	stamped := *snap
	stamped.UpdatedAt = s.now
	s.mock.ExpectSet("battle:b1", s.encoded(&stamped), 0).SetVal("OK")
	s.mock.ExpectSAdd(battles.IndexKey, "b1").SetVal(1)

	s.NoError(s.repo.Save(s.ctx, snap))
	s.Equal(s.now, snap.UpdatedAt)
}

func (s *RedisRepoTestSuite) TestSave_RedisError() {
	snap := s.snapshot("b1")
	s.timeProvider.EXPECT().Now().Return(s.now)

	stamped := *snap
	stamped.UpdatedAt = s.now
	s.mock.ExpectSet("battle:b1", s.encoded(&stamped), 0).SetErr(errors.New("redis error"))

	s.Error(s.repo.Save(s.ctx, snap))
}

func (s *RedisRepoTestSuite) TestSave_InvalidInput() {
	s.True(apperr.IsInvalidArgument(s.repo.Save(s.ctx, nil)))
	s.True(apperr.IsInvalidArgument(s.repo.Save(s.ctx, &battles.Snapshot{})))
}

func (s *RedisRepoTestSuite) TestGet() {
	snap := s.snapshot("b1")
	snap.UpdatedAt = s.now
	s.mock.ExpectGet("battle:b1").SetVal(s.encoded(snap))

	got, err := s.repo.Get(s.ctx, "b1")
	s.Require().NoError(err)
	s.Equal(snap, got)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("battle:missing").RedisNil()

	_, err := s.repo.Get(s.ctx, "missing")
	s.True(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGet_RedisError() {
	s.mock.ExpectGet("battle:b1").SetErr(errors.New("redis error"))

	_, err := s.repo.Get(s.ctx, "b1")
	s.Error(err)
	s.False(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestDelete() {
	s.mock.ExpectDel("battle:b1").SetVal(1)
	s.mock.ExpectSRem(battles.IndexKey, "b1").SetVal(1)

	s.NoError(s.repo.Delete(s.ctx, "b1"))
}

func (s *RedisRepoTestSuite) TestList() {
	a := s.snapshot("a")
	a.UpdatedAt = s.now
	b := s.snapshot("b")
	b.UpdatedAt = s.now

	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectSMembers(battles.IndexKey).SetVal([]string{"b", "stale", "a"})
	s.mock.ExpectGet("battle:a").SetVal(s.encoded(a))
	s.mock.ExpectGet("battle:b").SetVal(s.encoded(b))
	s.mock.ExpectGet("battle:stale").RedisNil()

	got, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]*battles.Snapshot{a, b}, got)
}

func (s *RedisRepoTestSuite) TestList_RedisError() {
	s.mock.ExpectSMembers(battles.IndexKey).SetErr(errors.New("redis error"))

	_, err := s.repo.List(s.ctx)
	s.Error(err)
}
