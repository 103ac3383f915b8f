package authz_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/authz"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/repositories"
	"github.com/wishwell/wishwell-go/pkg/session"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// stubDependents implements repositories.DependentRepo over a fixed list.
type stubDependents struct {
	repositories.DependentRepo

	dependents []models.Dependent
	err        error
}

func (s *stubDependents) List(ctx context.Context) ([]models.Dependent, error) {
	return s.dependents, s.err
}

func newTestSession(t *testing.T, identity *models.Identity) *session.Manager {
	t.Helper()
	m := session.NewManager(session.NewMemoryStore(), getTestLogger())
	if identity != nil {
		require.NoError(t, m.SetSession(context.Background(), "tok", identity))
	}
	return m
}

func TestCanManage(t *testing.T) {
	ctx := context.Background()
	me := uuid.New()
	other := uuid.New()
	myDependent := uuid.New()
	othersDependent := uuid.New()
	sharedDependent := uuid.New()

	dependents := &stubDependents{dependents: []models.Dependent{
		{ID: myDependent, GuardianID: me},
		{ID: othersDependent, GuardianID: other},
		{ID: sharedDependent, GuardianID: other, SecondGuardianID: &me},
	}}
	svc := authz.NewService(newTestSession(t, &models.Identity{ID: me}), dependents, getTestLogger())

	assert.True(t, svc.CanManage(ctx, me), "own resources")
	assert.True(t, svc.CanManage(ctx, myDependent), "primary guardianship")
	assert.True(t, svc.CanManage(ctx, sharedDependent), "second guardianship")
	assert.False(t, svc.CanManage(ctx, other), "another identity")
	assert.False(t, svc.CanManage(ctx, othersDependent), "a dependent of someone else")
	assert.False(t, svc.CanManage(ctx, uuid.New()), "an unknown owner")
}

func TestIsGuardianOfDependentOwnerExcludesSelf(t *testing.T) {
	ctx := context.Background()
	me := uuid.New()
	myDependent := uuid.New()

	dependents := &stubDependents{dependents: []models.Dependent{
		{ID: myDependent, GuardianID: me},
	}}
	svc := authz.NewService(newTestSession(t, &models.Identity{ID: me}), dependents, getTestLogger())

	assert.True(t, svc.IsGuardianOfDependentOwner(ctx, myDependent))
	assert.False(t, svc.IsGuardianOfDependentOwner(ctx, me), "own resources are not guardianship")
}

func TestCanManageDeniesWithoutSession(t *testing.T) {
	svc := authz.NewService(newTestSession(t, nil), &stubDependents{}, getTestLogger())
	assert.False(t, svc.CanManage(context.Background(), uuid.New()))
}

func TestCanManageFailsClosedOnError(t *testing.T) {
	ctx := context.Background()
	me := uuid.New()
	dependents := &stubDependents{err: api.NewError(http.StatusServiceUnavailable, "down")}
	svc := authz.NewService(newTestSession(t, &models.Identity{ID: me}), dependents, getTestLogger())

	assert.True(t, svc.CanManage(ctx, me), "own id needs no dependent lookup")
	assert.False(t, svc.CanManage(ctx, uuid.New()), "a failed lookup denies, never grants")
}

func TestCanManageDeniesNilOwner(t *testing.T) {
	me := uuid.New()
	svc := authz.NewService(newTestSession(t, &models.Identity{ID: me}), &stubDependents{}, getTestLogger())
	assert.False(t, svc.CanManage(context.Background(), uuid.Nil))
}
