package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestRoomStore_Create(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(nil)

	first, err := store.Create([2]string{"u1", "u2"})
	req.NoError(err)
	second, err := store.Create([2]string{"u3", "u4"})
	req.NoError(err)

	req.NotEmpty(first.ID)
	req.NotEqual(first.ID, second.ID)
	req.Equal([2]string{"u1", "u2"}, first.Participants)
	req.False(first.CreatedAt.IsZero())
	req.Equal(2, store.Len())

	got, ok := store.Get(first.ID)
	req.True(ok)
	req.Same(first, got)
}

func TestRoomStore_RegeneratesOnCollision(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(sequence("r1", "r1", "r2"))

	first, err := store.Create([2]string{"a", "b"})
	req.NoError(err)
	second, err := store.Create([2]string{"c", "d"})
	req.NoError(err)

	req.Equal("r1", first.ID)
	req.Equal("r2", second.ID)

	kept, _ := store.Get("r1")
	req.Equal([2]string{"a", "b"}, kept.Participants)
}

func TestRoomStore_Exhausted(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(sequence("same"))

	_, err := store.Create([2]string{"a", "b"})
	req.NoError(err)

	room, err := store.Create([2]string{"c", "d"})
	req.ErrorIs(err, ErrRoomIDExhausted)
	req.Nil(room)
	req.Equal(1, store.Len())
}
