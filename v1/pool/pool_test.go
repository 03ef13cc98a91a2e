package pool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vectordesk/core/v1/vectorstore"
)

type testLogger struct{}

func (testLogger) Debug(msg string, err error, fields ...map[string]interface{}) {}
func (testLogger) Info(msg string, err error, fields ...map[string]interface{})  {}
func (testLogger) Warn(msg string, err error, fields ...map[string]interface{})  {}
func (testLogger) Error(msg string, err error, fields ...map[string]interface{}) {}

// mockFactory hands out the given stores in order and counts how often the
// pool asked for a new adapter.
func mockFactory(stores ...vectorstore.Store) (Factory, *int) {
	calls := 0
	factory := func(backend vectorstore.BackendKind) (vectorstore.Store, error) {
		if calls >= len(stores) {
			return nil, fmt.Errorf("factory exhausted after %d stores", calls)
		}
		store := stores[calls]
		calls++
		return store, nil
	}
	return factory, &calls
}

func TestConnectSharesOneInstancePerProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mock := vectorstore.NewMockStore(ctrl)
	mock.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mock.EXPECT().Disconnect(gomock.Any()).Return(nil).Times(1)

	factory, calls := mockFactory(mock)
	p := NewPool(testLogger{}, factory)
	profile := vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}

	first, err := p.Connect(ctx, profile)
	if err != nil {
		t.Fatalf("first Connect failed: %v", err)
	}
	second, err := p.Connect(ctx, profile)
	if err != nil {
		t.Fatalf("second Connect failed: %v", err)
	}
	if first != second {
		t.Error("expected both callers to share one adapter instance")
	}
	if *calls != 1 {
		t.Errorf("factory called %d times, want 1", *calls)
	}

	if err := p.Disconnect(ctx, "p1"); err != nil {
		t.Fatalf("first Disconnect failed: %v", err)
	}
	if _, ok := p.Get("p1"); !ok {
		t.Fatal("connection torn down while still referenced")
	}

	if err := p.Disconnect(ctx, "p1"); err != nil {
		t.Fatalf("second Disconnect failed: %v", err)
	}
	if _, ok := p.Get("p1"); ok {
		t.Error("connection still pooled after the last reference went")
	}

	if err := p.Disconnect(ctx, "p1"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("Disconnect on released profile = %v, want ErrUnknownProfile", err)
	}
}

func TestConnectFailureRegistersNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	failing := vectorstore.NewMockStore(ctrl)
	failing.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(errors.New("dial refused")).Times(1)
	working := vectorstore.NewMockStore(ctrl)
	working.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	factory, calls := mockFactory(failing, working)
	p := NewPool(testLogger{}, factory)
	profile := vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendChroma}

	if _, err := p.Connect(ctx, profile); err == nil {
		t.Fatal("expected the dial failure to surface")
	}
	if _, ok := p.Get("p1"); ok {
		t.Error("failed connect must not register an entry")
	}
	if err := p.Disconnect(ctx, "p1"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("Disconnect after failed connect = %v, want ErrUnknownProfile", err)
	}

	store, err := p.Connect(ctx, profile)
	if err != nil {
		t.Fatalf("retry Connect failed: %v", err)
	}
	if store != working {
		t.Error("expected the retry to pool the fresh adapter")
	}
	if *calls != 2 {
		t.Errorf("factory called %d times, want 2", *calls)
	}
}

func TestConnectRequiresProfileID(t *testing.T) {
	factory, calls := mockFactory()
	p := NewPool(testLogger{}, factory)

	if _, err := p.Connect(context.Background(), vectorstore.ConnectionProfile{}); err == nil {
		t.Fatal("expected an error for a profile without an id")
	}
	if *calls != 0 {
		t.Errorf("factory called %d times, want 0", *calls)
	}
}

func TestConnectDistinctProfiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockA := vectorstore.NewMockStore(ctrl)
	mockA.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mockB := vectorstore.NewMockStore(ctrl)
	mockB.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	factory, calls := mockFactory(mockA, mockB)
	p := NewPool(testLogger{}, factory)

	first, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant})
	if err != nil {
		t.Fatalf("Connect p1 failed: %v", err)
	}
	second, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p2", Backend: vectorstore.BackendQdrant})
	if err != nil {
		t.Fatalf("Connect p2 failed: %v", err)
	}
	if first == second {
		t.Error("distinct profiles must not share an adapter instance")
	}
	if *calls != 2 {
		t.Errorf("factory called %d times, want 2", *calls)
	}
}

func TestFactoryErrorPropagates(t *testing.T) {
	p := NewPool(testLogger{}, func(backend vectorstore.BackendKind) (vectorstore.Store, error) {
		return nil, fmt.Errorf("no adapter for %q", backend)
	})

	_, err := p.Connect(context.Background(), vectorstore.ConnectionProfile{ID: "p1", Backend: "nonesuch"})
	if err == nil || !strings.Contains(err.Error(), "no adapter") {
		t.Fatalf("expected factory error, got %v", err)
	}
	if _, ok := p.Get("p1"); ok {
		t.Error("factory failure must not register an entry")
	}
}

func TestDefaultFactoryBuildsAdapters(t *testing.T) {
	factory := DefaultFactory(testLogger{}, nil, nil)

	for _, backend := range []vectorstore.BackendKind{
		vectorstore.BackendChroma,
		vectorstore.BackendPinecone,
		vectorstore.BackendQdrant,
	} {
		store, err := factory(backend)
		if err != nil {
			t.Fatalf("factory(%s) failed: %v", backend, err)
		}
		if store.Backend() != backend {
			t.Errorf("factory(%s) built a %s adapter", backend, store.Backend())
		}
		if store.IsConnected() {
			t.Errorf("factory(%s) must hand out a disconnected adapter", backend)
		}
	}

	if _, err := factory("nonesuch"); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func TestIsConnectedDelegatesToStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mock := vectorstore.NewMockStore(ctrl)
	mock.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	gomock.InOrder(
		mock.EXPECT().IsConnected().Return(true),
		mock.EXPECT().IsConnected().Return(false),
	)

	factory, _ := mockFactory(mock)
	p := NewPool(testLogger{}, factory)
	if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if !p.IsConnected("p1") {
		t.Error("expected IsConnected to report the adapter's live state")
	}
	if p.IsConnected("p1") {
		t.Error("expected IsConnected to follow the adapter when it drops")
	}
	if p.IsConnected("ghost") {
		t.Error("unknown profiles are never connected")
	}
}

func TestBeginCopyGuardsPerProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockA := vectorstore.NewMockStore(ctrl)
	mockA.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mockB := vectorstore.NewMockStore(ctrl)
	mockB.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	factory, _ := mockFactory(mockA, mockB)
	p := NewPool(testLogger{}, factory)
	for _, id := range []string{"p1", "p2"} {
		if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: id, Backend: vectorstore.BackendQdrant}); err != nil {
			t.Fatalf("Connect %s failed: %v", id, err)
		}
	}

	copyCtx, release, err := p.BeginCopy(ctx, "p1")
	if err != nil {
		t.Fatalf("BeginCopy failed: %v", err)
	}
	if copyCtx.Err() != nil {
		t.Fatal("fresh copy context must be live")
	}

	if _, _, err := p.BeginCopy(ctx, "p1"); !errors.Is(err, ErrCopyInProgress) {
		t.Errorf("second BeginCopy = %v, want ErrCopyInProgress", err)
	}

	// A copy on one profile does not block another profile.
	_, releaseOther, err := p.BeginCopy(ctx, "p2")
	if err != nil {
		t.Fatalf("BeginCopy on second profile failed: %v", err)
	}
	releaseOther()

	release()
	if copyCtx.Err() == nil {
		t.Error("release must cancel the derived context")
	}

	if _, release, err = p.BeginCopy(ctx, "p1"); err != nil {
		t.Fatalf("BeginCopy after release failed: %v", err)
	}
	release()

	if _, _, err := p.BeginCopy(ctx, "ghost"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("BeginCopy on unknown profile = %v, want ErrUnknownProfile", err)
	}
}

func TestCancelCopySignalsTheDerivedContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mock := vectorstore.NewMockStore(ctrl)
	mock.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	factory, _ := mockFactory(mock)
	p := NewPool(testLogger{}, factory)
	if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	copyCtx, release, err := p.BeginCopy(ctx, "p1")
	if err != nil {
		t.Fatalf("BeginCopy failed: %v", err)
	}

	if err := p.CancelCopy("p1"); err != nil {
		t.Fatalf("CancelCopy failed: %v", err)
	}
	if !errors.Is(copyCtx.Err(), context.Canceled) {
		t.Errorf("copy context err = %v, want context.Canceled", copyCtx.Err())
	}

	// The registration holds until the copy's own release runs, so a
	// replacement cannot start against a copy that is still winding down.
	if _, _, err := p.BeginCopy(ctx, "p1"); !errors.Is(err, ErrCopyInProgress) {
		t.Errorf("BeginCopy during wind-down = %v, want ErrCopyInProgress", err)
	}
	release()

	if err := p.CancelCopy("p1"); err != nil {
		t.Errorf("CancelCopy without a copy = %v, want nil", err)
	}
	if err := p.CancelCopy("ghost"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("CancelCopy on unknown profile = %v, want ErrUnknownProfile", err)
	}
}

func TestReleaseDoesNotUnregisterASuccessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mock := vectorstore.NewMockStore(ctrl)
	mock.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	factory, _ := mockFactory(mock)
	p := NewPool(testLogger{}, factory)
	if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, staleRelease, err := p.BeginCopy(ctx, "p1")
	if err != nil {
		t.Fatalf("first BeginCopy failed: %v", err)
	}
	staleRelease()

	_, release, err := p.BeginCopy(ctx, "p1")
	if err != nil {
		t.Fatalf("second BeginCopy failed: %v", err)
	}

	// Running the first release again must not free the second copy's
	// slot.
	staleRelease()
	if _, _, err := p.BeginCopy(ctx, "p1"); !errors.Is(err, ErrCopyInProgress) {
		t.Errorf("BeginCopy after stale release = %v, want ErrCopyInProgress", err)
	}
	release()
}

func TestDisconnectTeardownCancelsRunningCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mock := vectorstore.NewMockStore(ctrl)
	mock.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mock.EXPECT().Disconnect(gomock.Any()).Return(nil).Times(1)

	factory, _ := mockFactory(mock)
	p := NewPool(testLogger{}, factory)
	if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	copyCtx, _, err := p.BeginCopy(ctx, "p1")
	if err != nil {
		t.Fatalf("BeginCopy failed: %v", err)
	}

	if err := p.Disconnect(ctx, "p1"); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if copyCtx.Err() == nil {
		t.Error("final teardown must cancel the in-flight copy")
	}
}

func TestShutdownDisconnectsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockA := vectorstore.NewMockStore(ctrl)
	mockA.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mockA.EXPECT().Disconnect(gomock.Any()).Return(nil).Times(1)
	mockB := vectorstore.NewMockStore(ctrl)
	mockB.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mockB.EXPECT().Disconnect(gomock.Any()).Return(nil).Times(1)

	factory, _ := mockFactory(mockA, mockB)
	p := NewPool(testLogger{}, factory)

	profileA := vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}
	if _, err := p.Connect(ctx, profileA); err != nil {
		t.Fatalf("Connect p1 failed: %v", err)
	}
	if _, err := p.Connect(ctx, profileA); err != nil {
		t.Fatalf("second Connect p1 failed: %v", err)
	}
	if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p2", Backend: vectorstore.BackendQdrant}); err != nil {
		t.Fatalf("Connect p2 failed: %v", err)
	}

	copyCtx, _, err := p.BeginCopy(ctx, "p1")
	if err != nil {
		t.Fatalf("BeginCopy failed: %v", err)
	}

	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if copyCtx.Err() == nil {
		t.Error("shutdown must cancel in-flight copies")
	}
	for _, id := range []string{"p1", "p2"} {
		if _, ok := p.Get(id); ok {
			t.Errorf("profile %s still pooled after shutdown", id)
		}
	}
}

func TestShutdownJoinsTeardownErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mock := vectorstore.NewMockStore(ctrl)
	mock.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mock.EXPECT().Disconnect(gomock.Any()).Return(errors.New("close failed")).Times(1)

	factory, _ := mockFactory(mock)
	p := NewPool(testLogger{}, factory)
	if _, err := p.Connect(ctx, vectorstore.ConnectionProfile{ID: "p1", Backend: vectorstore.BackendQdrant}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	err := p.Shutdown(ctx)
	if err == nil {
		t.Fatal("expected the teardown failure to surface")
	}
	if !strings.Contains(err.Error(), "close failed") || !strings.Contains(err.Error(), "p1") {
		t.Fatalf("shutdown error should name the profile and cause, got %v", err)
	}
}
