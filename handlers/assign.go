// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math/rand/v2"
	"sync"
	"time"
)

// AvailableSongs applies the assignment policy: every song the user has not
// played whose responders plus outstanding holds by other users stay under
// responseCap. A cap of 0 disables the filter. Order follows all.
func AvailableSongs(all, played []string, counts, held map[string]int, responseCap int) []string {
	playedSet := make(map[string]struct{}, len(played))
	for _, s := range played {
		playedSet[s] = struct{}{}
	}

	available := make([]string, 0, len(all))
	for _, s := range all {
		if _, ok := playedSet[s]; ok {
			continue
		}
		if responseCap > 0 && counts[s]+held[s] >= responseCap {
			continue
		}
		available = append(available, s)
	}
	return available
}

type hold struct {
	song    string
	expires time.Time
}

// Reservations is the single-writer song allocator. Selection happens under
// one lock, and each pick is held for its user until they submit or the TTL
// passes. Holds count toward the response cap for everyone else. With a zero
// TTL nothing is held and selection is plain uniform choice.
type Reservations struct {
	mu    sync.Mutex
	ttl   time.Duration
	holds map[string]hold // user id → current pick
	now   func() time.Time
	intn  func(int) int
}

func NewReservations(ttl time.Duration) *Reservations {
	return &Reservations{
		ttl:   ttl,
		holds: make(map[string]hold),
		now:   time.Now,
		intn:  rand.IntN,
	}
}

// Assign picks the next song for userID. ok is false when nothing is
// available, which callers report as completion.
func (rs *Reservations) Assign(userID string, all, played []string, counts map[string]int, responseCap int) (song string, ok bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	now := rs.now()
	held := make(map[string]int)
	for user, h := range rs.holds {
		if !now.Before(h.expires) {
			delete(rs.holds, user)
			continue
		}
		if user != userID {
			held[h.song]++
		}
	}

	available := AvailableSongs(all, played, counts, held, responseCap)
	if len(available) == 0 {
		delete(rs.holds, userID)
		return "", false
	}

	if h, ok := rs.holds[userID]; ok {
		for _, s := range available {
			if s == h.song {
				rs.holds[userID] = hold{song: s, expires: now.Add(rs.ttl)}
				return s, true
			}
		}
	}

	song = available[rs.intn(len(available))]
	if rs.ttl > 0 {
		rs.holds[userID] = hold{song: song, expires: now.Add(rs.ttl)}
	}
	return song, true
}

// Release drops userID's hold on songID, if that is what they hold.
func (rs *Reservations) Release(userID, songID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if h, ok := rs.holds[userID]; ok && h.song == songID {
		delete(rs.holds, userID)
	}
}

// Held returns the song currently held for userID.
func (rs *Reservations) Held(userID string) (string, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	h, ok := rs.holds[userID]
	if !ok || !rs.now().Before(h.expires) {
		return "", false
	}
	return h.song, true
}
