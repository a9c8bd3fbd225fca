package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AppleLamps/free-photo-or/modules/generate"
)

// countingSlot records every write so tests can assert on debounce behavior.
type countingSlot struct {
	mu     sync.Mutex
	saves  [][]byte
	loaded []byte
}

func (c *countingSlot) Save(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves = append(c.saves, append([]byte(nil), data...))
	return nil
}

func (c *countingSlot) Load(_ context.Context) ([]byte, error) {
	return c.loaded, nil
}

func (c *countingSlot) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.saves)
}

func (c *countingSlot) lastSave() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.saves) == 0 {
		return nil
	}
	return c.saves[len(c.saves)-1]
}

func record(id string) ImageRecord {
	return ImageRecord{ID: id, URL: "https://x/" + id + ".png", Prompt: "p-" + id, CreatedAt: time.Now().UnixMilli()}
}

func TestAddImage(t *testing.T) {
	t.Run("prepends newest first", func(t *testing.T) {
		s := New(&countingSlot{})
		s.AddImage(record("a"))
		s.AddImage(record("b"))

		images := s.Images()
		require.Len(t, images, 2)
		assert.Equal(t, "b", images[0].ID)
		assert.Equal(t, "a", images[1].ID)
	})

	t.Run("notifies each subscriber exactly once per add", func(t *testing.T) {
		s := New(&countingSlot{})

		var events []Event
		s.Subscribe(func(e Event) { events = append(events, e) })

		s.AddImage(record("a"))
		require.Len(t, events, 1)
		assert.Equal(t, EventAdded, events[0].Type)
		require.NotNil(t, events[0].Record)
		assert.Equal(t, "a", events[0].Record.ID)
	})

	t.Run("subscribers run in subscription order", func(t *testing.T) {
		s := New(&countingSlot{})

		var order []string
		s.Subscribe(func(Event) { order = append(order, "first") })
		s.Subscribe(func(Event) { order = append(order, "second") })

		s.AddImage(record("a"))
		assert.Equal(t, []string{"first", "second"}, order)
	})
}

func TestRemoveImage(t *testing.T) {
	t.Run("removes the matching record and notifies", func(t *testing.T) {
		s := New(&countingSlot{})
		s.AddImage(record("a"))
		s.AddImage(record("b"))

		var events []Event
		s.Subscribe(func(e Event) { events = append(events, e) })

		s.RemoveImage("a")
		require.Len(t, s.Images(), 1)
		assert.Equal(t, "b", s.Images()[0].ID)
		require.Len(t, events, 1)
		assert.Equal(t, EventRemoved, events[0].Type)
		assert.Equal(t, "a", events[0].Record.ID)
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		slot := &countingSlot{}
		s := New(slot, WithDebounce(5*time.Millisecond))
		s.AddImage(record("a"))
		time.Sleep(30 * time.Millisecond)
		writesBefore := slot.saveCount()

		var notified bool
		s.Subscribe(func(Event) { notified = true })

		s.RemoveImage("missing")
		time.Sleep(30 * time.Millisecond)

		assert.False(t, notified)
		assert.Equal(t, writesBefore, slot.saveCount())
		assert.Len(t, s.Images(), 1)
	})
}

func TestClearAll(t *testing.T) {
	t.Run("persists synchronously and cancels the pending debounce", func(t *testing.T) {
		slot := &countingSlot{}
		s := New(slot, WithDebounce(time.Hour)) // the debounced write must never land

		s.AddImage(record("a"))
		require.Zero(t, slot.saveCount())

		s.ClearAll()
		require.Equal(t, 1, slot.saveCount())
		assert.Empty(t, s.Images())

		var persisted []ImageRecord
		require.NoError(t, json.Unmarshal(slot.lastSave(), &persisted))
		assert.Empty(t, persisted)

		// Nothing else may arrive after the cancelled debounce window.
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 1, slot.saveCount())
	})

	t.Run("emits a cleared event with no record", func(t *testing.T) {
		s := New(&countingSlot{})
		s.AddImage(record("a"))

		var events []Event
		s.Subscribe(func(e Event) { events = append(events, e) })

		s.ClearAll()
		require.Len(t, events, 1)
		assert.Equal(t, EventCleared, events[0].Type)
		assert.Nil(t, events[0].Record)
	})
}

func TestDebouncedPersistence(t *testing.T) {
	t.Run("rapid mutations coalesce into one write", func(t *testing.T) {
		slot := &countingSlot{}
		s := New(slot, WithDebounce(20*time.Millisecond))

		s.AddImage(record("a"))
		s.AddImage(record("b"))
		s.AddImage(record("c"))

		require.Eventually(t, func() bool { return slot.saveCount() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, 1, slot.saveCount())

		var persisted []ImageRecord
		require.NoError(t, json.Unmarshal(slot.lastSave(), &persisted))
		require.Len(t, persisted, 3)
		assert.Equal(t, "c", persisted[0].ID)
	})

	t.Run("flush writes pending state immediately", func(t *testing.T) {
		slot := &countingSlot{}
		s := New(slot, WithDebounce(time.Hour))

		s.AddImage(record("a"))
		s.Flush()
		assert.Equal(t, 1, slot.saveCount())

		// Flush with nothing pending is a no-op.
		s.Flush()
		assert.Equal(t, 1, slot.saveCount())
	})
}

func TestHydration(t *testing.T) {
	t.Run("loads the persisted list", func(t *testing.T) {
		data, err := json.Marshal([]ImageRecord{record("a"), record("b")})
		require.NoError(t, err)

		s := New(&countingSlot{loaded: data})
		images := s.Images()
		require.Len(t, images, 2)
		assert.Equal(t, "a", images[0].ID)
	})

	t.Run("corrupt slot degrades to an empty gallery", func(t *testing.T) {
		s := New(&countingSlot{loaded: []byte("{not json")})
		assert.Empty(t, s.Images())
	})
}

func TestImagesDefensiveCopy(t *testing.T) {
	s := New(&countingSlot{})
	rec := record("a")
	rec.Settings = &generate.GenerationSettings{Model: "flux", InputImages: []string{"https://x/ref.png"}}
	s.AddImage(rec)

	out := s.Images()
	out[0].Prompt = "mutated"
	out[0].Settings.Model = "turbo"
	out[0].Settings.InputImages[0] = "mutated"

	fresh := s.Images()
	assert.Equal(t, "p-a", fresh[0].Prompt)
	assert.Equal(t, "flux", fresh[0].Settings.Model)
	assert.Equal(t, "https://x/ref.png", fresh[0].Settings.InputImages[0])
}

func TestUnsubscribe(t *testing.T) {
	s := New(&countingSlot{})

	var calls int
	unsubscribe := s.Subscribe(func(Event) { calls++ })

	s.AddImage(record("a"))
	unsubscribe()
	s.AddImage(record("b"))

	assert.Equal(t, 1, calls)
}

func TestSnapshotSettings(t *testing.T) {
	snapshot := SnapshotSettings(generate.GenerationSettings{
		Model:       "kontext",
		InputImage:  "data:image/png;base64,AAAA",
		InputImages: []string{"https://x/ref.png", "data:image/jpeg;base64,BBBB"},
	})

	assert.Empty(t, snapshot.InputImage)
	assert.Equal(t, []string{"https://x/ref.png"}, snapshot.InputImages)
	assert.Equal(t, "kontext", snapshot.Model)
}

func TestPersistedRoundTrip(t *testing.T) {
	slot := NewFileSlot(filepath.Join(t.TempDir(), "gallery.json"))

	first := New(slot, WithDebounce(10*time.Millisecond))
	first.AddImage(record("a"))
	first.AddImage(record("b"))

	// Wait for the debounced write carrying both records to land on disk.
	require.Eventually(t, func() bool {
		data, err := slot.Load(context.Background())
		if err != nil || len(data) == 0 {
			return false
		}
		var persisted []ImageRecord
		return json.Unmarshal(data, &persisted) == nil && len(persisted) == 2
	}, time.Second, 5*time.Millisecond)

	second := New(slot)
	assert.Equal(t, first.Images(), second.Images())
}

func TestFileSlot(t *testing.T) {
	t.Run("round trips through disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gallery.json")
		slot := NewFileSlot(path)

		require.NoError(t, slot.Save(context.Background(), []byte(`[{"id":"a"}]`)))

		data, err := slot.Load(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"a"}]`, string(data))

		// The temp file must not survive the rename.
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing file loads as an empty slot", func(t *testing.T) {
		slot := NewFileSlot(filepath.Join(t.TempDir(), "never-written.json"))
		data, err := slot.Load(context.Background())
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}
