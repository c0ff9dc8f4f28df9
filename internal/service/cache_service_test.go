package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

type memoryCacheRepo struct {
	values map[string][]byte
	getErr error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = make(map[string][]byte)
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	require.NoError(t, svc.Set(context.Background(), "k", map[string]int{"a": 1}, 0))

	var dest map[string]int
	hit, err := svc.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, dest["a"])
}

func TestCacheServiceMissIsNotAnError(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)

	var dest string
	hit, err := svc.Get(context.Background(), "absent", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabledIsNoOp(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.Empty(t, repo.values)

	var dest string
	hit, err := svc.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServicePropagatesRepoFailures(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.getErr = fmt.Errorf("connection reset")
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	var dest string
	hit, err := svc.Get(context.Background(), "k", &dest)
	require.Error(t, err)
	assert.False(t, hit)
}

func TestTimelineServicePreviewUsesCache(t *testing.T) {
	repo := newMemoryCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	plan := testPlanState()
	svc := NewTimelineService(planProviderStub{plan: plan}, cacheSvc, nil, zap.NewNop(), time.Minute)

	first, err := svc.Preview(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Contains(t, repo.values, fmt.Sprintf("timeline:%s:v%d", plan.ID, plan.Version))

	second, err := svc.Preview(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.GeneratedAt.Unix(), second.GeneratedAt.Unix())
}
