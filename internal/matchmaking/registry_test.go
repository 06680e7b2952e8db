package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	c1 := fakeClient("c1", 1)

	// Given a live connection that has not announced yet
	r.Connect(c1)
	req.True(r.Connected(c1))
	req.Equal(0, r.Online())
	req.Len(r.Connections(), 1)

	// When it announces
	dropped := r.Register("u1", c1)

	// Then the identity is bound to it
	req.Empty(dropped)
	req.Equal(1, r.Online())
	got, ok := r.Lookup("u1")
	req.True(ok)
	req.Same(c1, got)
	req.ElementsMatch([]string{"u1"}, r.Users())
}

func TestRegistry_LatestRegistrationWins(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	c1 := fakeClient("c1", 1)
	c2 := fakeClient("c2", 1)
	r.Connect(c1)
	r.Connect(c2)

	r.Register("u1", c1)
	r.Register("u1", c2)

	got, _ := r.Lookup("u1")
	req.Same(c2, got)
	req.Equal(1, r.Online())

	// Closing the superseded connection keeps the newer binding
	userID, wasBound := r.Unregister(c1)
	req.Equal("u1", userID)
	req.False(wasBound)
	got, ok := r.Lookup("u1")
	req.True(ok)
	req.Same(c2, got)
	req.False(r.Connected(c1))
}

func TestRegistry_ReannounceReleasesOldIdentity(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	c1 := fakeClient("c1", 1)

	r.Register("u1", c1)
	dropped := r.Register("u2", c1)

	req.Equal("u1", dropped)
	_, ok := r.Lookup("u1")
	req.False(ok)
	req.Equal(1, r.Online())

	req.Empty(r.Register("u2", c1))
}

func TestRegistry_Unregister(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	c1 := fakeClient("c1", 1)
	anon := fakeClient("anon", 1)
	r.Connect(anon)
	r.Register("u1", c1)

	userID, wasBound := r.Unregister(c1)
	req.Equal("u1", userID)
	req.True(wasBound)
	req.Equal(0, r.Online())

	userID, wasBound = r.Unregister(anon)
	req.Empty(userID)
	req.False(wasBound)
	req.Empty(r.Connections())
}
