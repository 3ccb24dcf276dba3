package sessions

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TruncatesToLimit(t *testing.T) {
	store := NewStore(10)

	for i := 0; i < 12; i++ {
		store.Append(1, fmt.Sprintf("User: message %d", i))
	}

	lines := store.Lines(1)
	require.Len(t, lines, 10)
	assert.Equal(t, "User: message 2", lines[0])
	assert.Equal(t, "User: message 11", lines[9])
}

func TestStore_ChatsAreIndependent(t *testing.T) {
	store := NewStore(0)

	store.Append(1, "User: hi")
	store.Append(1, "Assistant: hello")
	store.Append(2, "User: สวัสดี")

	assert.Equal(t, "User: hi\nAssistant: hello", store.Context(1))
	assert.Equal(t, "User: สวัสดี", store.Context(2))
	assert.Empty(t, store.Context(3))

	store.Clear(1)
	assert.Empty(t, store.Context(1))
	assert.Equal(t, "User: สวัสดี", store.Context(2))
}

func TestStore_ConcurrentAppend(t *testing.T) {
	store := NewStore(DefaultLimit)

	var wg sync.WaitGroup
	for chat := int64(0); chat < 4; chat++ {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(chat int64, i int) {
				defer wg.Done()
				store.Append(chat, fmt.Sprintf("User: %d", i))
				_ = store.Context(chat)
			}(chat, i)
		}
	}
	wg.Wait()

	for chat := int64(0); chat < 4; chat++ {
		assert.Len(t, store.Lines(chat), DefaultLimit)
	}
}

func TestStore_LinesIsACopy(t *testing.T) {
	store := NewStore(3)
	store.Append(7, "User: a")

	lines := store.Lines(7)
	lines[0] = "changed"

	assert.Equal(t, "User: a", store.Context(7))
}
