package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/event"
	"infracore/eventlog"
	"infracore/eventlog/memlog"
	"infracore/resource"
)

type recordingNotifier struct {
	mu        sync.Mutex
	published []event.Envelope
}

func (n *recordingNotifier) Publish(ctx context.Context, subject string, env event.Envelope) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, env)
	return nil
}

func newTestService() (*ResourceService, *memlog.Store, *recordingNotifier) {
	log := memlog.New()
	notifier := &recordingNotifier{}
	svc := NewResourceService(log, event.NewIDSource(), notifier, nil)
	return svc, log, notifier
}

func TestResourceService_RegisterThenAssignOrganization(t *testing.T) {
	ctx := context.Background()
	svc, log, notifier := newTestService()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	corr := event.NewCorrelationID()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	returnedID, err := svc.Register(ctx, resource.NewRegister(aggregateID, "web-01.example.com", "physical_server", t0, corr))
	require.NoError(t, err)
	assert.Equal(t, aggregateID, returnedID)

	err = svc.AssignOrganization(ctx, resource.NewAssignOrganization(aggregateID, "ORG", t1, corr))
	require.NoError(t, err)

	version, err := log.GetVersion(ctx, aggregateID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.published, 2)
	assert.Equal(t, "ResourceRegistered", notifier.published[0].EventType)
	assert.Equal(t, "OrganizationAssigned", notifier.published[1].EventType)
}

func TestResourceService_DoubleRegisterReturnsCommandError(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	corr := event.NewCorrelationID()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Register(ctx, resource.NewRegister(aggregateID, "srv", "physical_server", t0, corr))
	require.NoError(t, err)

	_, err = svc.Register(ctx, resource.NewRegister(aggregateID, "srv2", "physical_server", t0.Add(time.Minute), corr))
	require.Error(t, err)
	svcErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindCommand, svcErr.Kind)
}

func TestResourceService_NotInitializedPropagatesAsCommandError(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	corr := event.NewCorrelationID()

	err := svc.AssignOrganization(ctx, resource.NewAssignOrganization(aggregateID, "ORG", time.Now(), corr))
	require.Error(t, err)
	svcErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindCommand, svcErr.Kind)
	cmdErr, ok := svcErr.Cause.(*resource.CommandError)
	require.True(t, ok)
	assert.Equal(t, resource.ErrNotInitialized, cmdErr.Code)
}

func TestResourceService_RootEventCausationIsCommandID(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService()
	ids := event.NewIDSource()
	aggregateID := ids.New(time.Now())
	corr := event.NewCorrelationID()
	cmd := resource.NewRegister(aggregateID, "srv", "physical_server", time.Now(), corr)

	_, err := svc.Register(ctx, cmd)
	require.NoError(t, err)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.published, 1)
	assert.Equal(t, cmd.CausationID(), notifier.published[0].CausationID)
}

var _ eventlog.Log = (*memlog.Store)(nil)
