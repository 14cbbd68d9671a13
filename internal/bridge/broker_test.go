package bridge

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgvault/orgvault/internal/models"
)

func testPrincipal(user string) models.Principal {
	return models.Principal{UserID: "u-" + user, OrganizationID: "org-1", Username: user}
}

func TestIssueAndResolve(t *testing.T) {
	b := NewBroker(10 * time.Minute)

	token, err := b.Issue(testPrincipal("alice"))
	require.NoError(t, err)
	require.Len(t, token, 48) // 24 bytes hex-encoded

	got, err := b.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "org-1", got.OrganizationID)

	// resolution does not consume the token
	again, err := b.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestResolveUnknownToken(t *testing.T) {
	b := NewBroker(10 * time.Minute)

	_, err := b.Resolve("doesnotexist")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResolveExpiredToken(t *testing.T) {
	b := NewBroker(10 * time.Minute)
	current := time.Now()
	b.now = func() time.Time { return current }

	token, err := b.Issue(testPrincipal("alice"))
	require.NoError(t, err)

	// still live just inside the TTL
	current = current.Add(9 * time.Minute)
	_, err = b.Resolve(token)
	require.NoError(t, err)

	// past the TTL the token is gone for good
	current = current.Add(2 * time.Minute)
	_, err = b.Resolve(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Equal(t, 0, b.Len())

	// and stays gone even if the clock moves back
	current = current.Add(-5 * time.Minute)
	_, err = b.Resolve(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestSweepReclaimsExpired(t *testing.T) {
	b := NewBroker(10 * time.Minute)
	current := time.Now()
	b.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		_, err := b.Issue(testPrincipal("alice"))
		require.NoError(t, err)
	}
	current = current.Add(11 * time.Minute)
	live, err := b.Issue(testPrincipal("bob"))
	require.NoError(t, err)

	b.sweep()

	assert.Equal(t, 1, b.Len())
	got, err := b.Resolve(live)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestConcurrentIssueUniqueTokens(t *testing.T) {
	b := NewBroker(10 * time.Minute)

	const n = 64
	var wg sync.WaitGroup
	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := b.Issue(models.Principal{UserID: "u", OrganizationID: "o", Username: "w"})
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, token := range tokens {
		assert.False(t, seen[token], "duplicate token issued")
		seen[token] = true
	}
	assert.Equal(t, n, b.Len())
}

func TestConcurrentResolveAndSweep(t *testing.T) {
	b := NewBroker(50 * time.Millisecond)

	token, err := b.Issue(testPrincipal("alice"))
	require.NoError(t, err)

	// resolves racing the sweep must see either the live entry or a clean
	// not-found, never anything else
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p, err := b.Resolve(token)
				if err == nil {
					assert.Equal(t, "alice", p.Username)
				} else {
					assert.ErrorIs(t, err, ErrTokenNotFound)
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			b.sweep()
			time.Sleep(time.Millisecond)
		}
	}()
	wg.Wait()
}

func TestEachTokenResolvesToItsOwnPrincipal(t *testing.T) {
	b := NewBroker(10 * time.Minute)

	alice, err := b.Issue(testPrincipal("alice"))
	require.NoError(t, err)
	bob, err := b.Issue(testPrincipal("bob"))
	require.NoError(t, err)

	pa, err := b.Resolve(alice)
	require.NoError(t, err)
	pb, err := b.Resolve(bob)
	require.NoError(t, err)
	assert.Equal(t, "alice", pa.Username)
	assert.Equal(t, "bob", pb.Username)
}
