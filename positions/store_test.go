package positions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ionut-t/goaccel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "positions.yaml"))
	require.NoError(t, err)
	return store
}

func TestOpenCreatesEmptyFile(t *testing.T) {
	store := newTestStore(t)

	_, err := os.Stat(store.Path())
	require.NoError(t, err)

	list, err := store.Positions()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, ErrPathMissing)
}

func TestOpenKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.yaml")
	raw := `mac_address: "E8:5B:5B:24:22:E4"
saved_positions:
  - id: a
    name: sit
    value: 7200
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	store, err := Open(path)
	require.NoError(t, err)

	data, err := store.Data()
	require.NoError(t, err)
	assert.Equal(t, "E8:5B:5B:24:22:E4", data.MacAddress)
	require.Len(t, data.SavedPositions, 1)
	assert.Equal(t, "sit", data.SavedPositions[0].Name)
}

func TestCreatePosition(t *testing.T) {
	store := newTestStore(t)

	res, err := store.CreatePosition("stand", 11000, "CmdOrCtrl+Shift+s")
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, res)

	res, err = store.CreatePosition("sit", 7200, "")
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, res)

	list, err := store.Positions()
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "stand", list[0].Name)
	assert.Equal(t, 11000, list[0].Value)
	assert.Equal(t, "CmdOrCtrl+Shift+s", list[0].Accelerator)
	assert.NotEmpty(t, list[0].ID)

	assert.Equal(t, "", list[1].Accelerator)
	assert.NotEqual(t, list[0].ID, list[1].ID)
}

func TestCreatePositionDuplicate(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreatePosition("stand", 11000, "")
	require.NoError(t, err)

	res, err := store.CreatePosition("stand", 9000, "Alt+1")
	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, res)

	list, err := store.Positions()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 11000, list[0].Value)
}

func TestCreatePositionRejectsInvalidAccelerator(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreatePosition("stand", 11000, "Shift+Alt")
	assert.ErrorIs(t, err, core.ErrIncompleteAccelerator)

	list, err := store.Positions()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreatePositionWithCapturedSpace(t *testing.T) {
	store := newTestStore(t)

	session := core.NewSession(nil)
	session.Start()
	session.HandleKey(core.KeyEvent{Key: "Shift"})
	session.HandleKey(core.KeyEvent{Key: " "})
	accelerator, ok := session.Commit()
	require.True(t, ok)

	res, err := store.CreatePosition("stand", 11000, accelerator)
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, res)

	list, err := store.Positions()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Shift+Space", list[0].Accelerator)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := store.CreatePosition(name, 7000, "")
		require.NoError(t, err)
	}

	left, err := store.Remove("b")
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "a", left[0].Name)
	assert.Equal(t, "c", left[1].Name)

	_, err = store.Remove("b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReadsExternalEdits(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(store.Path(), []byte("saved_positions:\n  - name: x\n    value: 8000\n"), 0o600))

	list, err := store.Positions()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "x", list[0].Name)
}

func TestStoreInvalidFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("saved_positions: {"), 0o600))

	_, err := store.Positions()
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []Position, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func(list []Position) { changes <- list })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	_, err := store.CreatePosition("stand", 11000, "")
	require.NoError(t, err)

	select {
	case list := <-changes:
		require.Len(t, list, 1)
		assert.Equal(t, "stand", list[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestValidateInput(t *testing.T) {
	bounds := Bounds{Min: 6200, Max: 12700}

	tests := []struct {
		name    string
		posName string
		height  string
		want    int
		wantErr error
	}{
		{"valid", "stand", "11000", 11000, nil},
		{"trimmed", "stand", " 7200 ", 7200, nil},
		{"bounds inclusive", "low", "6200", 6200, nil},
		{"empty name", "  ", "7200", 0, ErrNoName},
		{"not a number", "stand", "tall", 0, ErrValueNotNumber},
		{"zero", "stand", "0", 0, ErrValueOutOfRange},
		{"too low", "stand", "6000", 0, ErrValueOutOfRange},
		{"too high", "stand", "13000", 0, ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateInput(tt.posName, tt.height, bounds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ValidateInput("stand", "1", bounds)
	assert.EqualError(t, err, "value has to be between 6200 and 12700")
}
