package chat

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Add_AppendsInOrder(t *testing.T) {
	m := NewManager()

	m.Add(RoleUser, "hello", nil)
	m.Add(RoleAssistant, "hi there", map[string]any{"object_count": 3})

	msgs := m.Messages(0, "")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, map[string]any{"object_count": 3}, msgs[1].Metadata)
}

func TestManager_Add_TrimsOldestBeyondLimit(t *testing.T) {
	m := NewManagerWithLimit(3)

	for i := 0; i < 5; i++ {
		m.Add(RoleUser, fmt.Sprintf("msg-%d", i), nil)
	}

	msgs := m.Messages(0, "")
	require.Len(t, msgs, 3)
	assert.Equal(t, "msg-2", msgs[0].Content)
	assert.Equal(t, "msg-4", msgs[2].Content)
}

func TestManager_Messages_FiltersAndLimits(t *testing.T) {
	m := NewManager()
	m.Add(RoleUser, "q1", nil)
	m.Add(RoleAssistant, "a1", nil)
	m.Add(RoleUser, "q2", nil)
	m.Add(RoleAssistant, "a2", nil)

	tests := []struct {
		name  string
		limit int
		role  Role
		want  []string
	}{
		{"All", 0, "", []string{"q1", "a1", "q2", "a2"}},
		{"LastTwo", 2, "", []string{"q2", "a2"}},
		{"UserOnly", 0, RoleUser, []string{"q1", "q2"}},
		{"LastAssistant", 1, RoleAssistant, []string{"a2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := m.Messages(tt.limit, tt.role)
			got := make([]string, len(msgs))
			for i, msg := range msgs {
				got[i] = msg.Content
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManager_History_WireShape(t *testing.T) {
	m := NewManager()
	m.Add(RoleUser, "make a cube", nil)

	history := m.History(10)

	require.Len(t, history, 1)
	assert.Equal(t, "user", history[0]["role"])
	assert.Equal(t, "make a cube", history[0]["content"])
	assert.Contains(t, history[0], "timestamp")
	assert.NotContains(t, history[0], "metadata")
}

func TestManager_Summary_CountsByRole(t *testing.T) {
	m := NewManager()
	m.Add(RoleUser, "q1", nil)
	m.Add(RoleAssistant, "a1", nil)
	m.Add(RoleUser, "q2", nil)
	m.SetContext("scene", "demo.c4d")

	s := m.Summary()

	assert.Equal(t, m.SessionID(), s.SessionID)
	assert.Equal(t, 3, s.MessageCount)
	assert.Equal(t, 2, s.UserMessages)
	assert.Equal(t, 1, s.AssistantMessages)
	assert.Equal(t, []string{"scene"}, s.ContextKeys)
}

func TestManager_Reset_StartsNewSession(t *testing.T) {
	m := NewManager()
	m.Add(RoleUser, "q1", nil)
	m.SetContext("k", "v")
	oldID := m.SessionID()

	m.Reset()

	assert.Empty(t, m.Messages(0, ""))
	assert.Empty(t, m.Context())
	assert.NotEqual(t, oldID, m.SessionID())
}

func TestManager_ExportImport_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "session.json")

	m := NewManager()
	m.Add(RoleUser, "hello", nil)
	m.Add(RoleAssistant, "hi", map[string]any{"selected": "Cube"})
	m.SetContext("scene", "demo.c4d")
	require.NoError(t, m.Export(path))

	restored := NewManager()
	require.NoError(t, restored.Import(path))

	assert.Equal(t, m.SessionID(), restored.SessionID())
	msgs := restored.Messages(0, "")
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, map[string]any{"scene": "demo.c4d"}, restored.Context())
}

func TestManager_Import_MissingFile_Errors(t *testing.T) {
	m := NewManager()
	assert.Error(t, m.Import(filepath.Join(t.TempDir(), "nope.json")))
}

func TestManager_ConcurrentAdds_AllRetainedUpToLimit(t *testing.T) {
	m := NewManagerWithLimit(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Add(RoleUser, fmt.Sprintf("w%d-%d", i, j), nil)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.Messages(0, ""), 500)
}
