package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_JoinIsDeduplicated(t *testing.T) {
	req := require.New(t)
	q := NewQueue()

	req.True(q.Join("u1"))
	req.False(q.Join("u1"))
	req.True(q.Join("u2"))
	req.False(q.Join("u1"))

	req.Equal(2, q.Len())
	req.Equal([]string{"u1", "u2"}, q.Snapshot())
}

func TestQueue_LeaveIsIdempotent(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	q.Join("u1")
	q.Join("u2")
	q.Join("u3")

	req.True(q.Leave("u2"))
	req.False(q.Leave("u2"))
	req.False(q.Leave("nobody"))

	req.Equal([]string{"u1", "u3"}, q.Snapshot())
	req.False(q.Contains("u2"))
}

func TestQueue_JoinLeaveSequencesNeverDuplicate(t *testing.T) {
	ops := []string{"join", "join", "leave", "join", "leave", "leave", "join", "join", "join"}
	q := NewQueue()

	for _, op := range ops {
		if op == "join" {
			q.Join("u1")
		} else {
			q.Leave("u1")
		}

		count := 0
		for _, id := range q.Snapshot() {
			if id == "u1" {
				count++
			}
		}
		assert.LessOrEqual(t, count, 1)
		assert.Equal(t, q.Contains("u1"), count == 1)
	}
}

func TestQueue_DrainPairs(t *testing.T) {
	tests := []struct {
		name         string
		queued       []string
		wantPairs    [][2]string
		wantLeftover string
		wantOK       bool
	}{
		{
			name:      "empty queue",
			wantPairs: [][2]string{},
		},
		{
			name:         "single user stays queued",
			queued:       []string{"a"},
			wantPairs:    [][2]string{},
			wantLeftover: "a",
			wantOK:       true,
		},
		{
			name:      "fifo pairs",
			queued:    []string{"a", "b", "c", "d"},
			wantPairs: [][2]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:         "odd count keeps the newest",
			queued:       []string{"a", "b", "c", "d", "e"},
			wantPairs:    [][2]string{{"a", "b"}, {"c", "d"}},
			wantLeftover: "e",
			wantOK:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			for _, id := range tt.queued {
				q.Join(id)
			}

			pairs, leftover, ok := q.DrainPairs()

			assert.Equal(t, tt.wantPairs, pairs)
			assert.Equal(t, tt.wantLeftover, leftover)
			assert.Equal(t, tt.wantOK, ok)
			assert.LessOrEqual(t, q.Len(), 1)
			for _, p := range pairs {
				assert.False(t, q.Contains(p[0]))
				assert.False(t, q.Contains(p[1]))
			}
			if ok {
				assert.Equal(t, []string{leftover}, q.Snapshot())
			}
		})
	}
}

func TestQueue_LeftoverKeepsPriority(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	q.Join("a")
	q.Join("b")
	q.Join("c")

	_, leftover, ok := q.DrainPairs()
	req.True(ok)
	req.Equal("c", leftover)

	q.Join("d")
	q.Join("e")

	pairs, leftover, ok := q.DrainPairs()
	req.Equal([][2]string{{"c", "d"}}, pairs)
	req.True(ok)
	req.Equal("e", leftover)
}

func TestQueue_DrainedUsersCanRejoin(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	q.Join("a")
	q.Join("b")
	q.DrainPairs()

	req.True(q.Join("a"))
	req.Equal([]string{"a"}, q.Snapshot())
}

func TestQueue_Requeue(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	q.Join("x")

	q.Requeue("a", "b", "x")

	req.Equal([]string{"a", "b", "x"}, q.Snapshot())
	req.Equal(3, q.Len())
}
