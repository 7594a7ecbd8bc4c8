package preload

import (
	"testing"

	"github.com/streamcore/playback/internal/domain"
)

func playlistOf(n int) []domain.PreloadableVideo {
	out := make([]domain.PreloadableVideo, n)
	for i := range out {
		out[i] = domain.PreloadableVideo{ID: string(rune('a' + i))}
	}
	return out
}

func TestLookaheadShrinksWithNetworkQuality(t *testing.T) {
	playlist := playlistOf(4)
	s := AdjacentVideo{}

	got := s.SelectCandidates(playlist, 0, domain.NetworkExcellent)
	if len(got) != 2 || got[0].Video.ID != playlist[1].ID || got[1].Video.ID != playlist[2].ID {
		t.Fatalf("Excellent: got %+v, want [playlist[1], playlist[2]]", got)
	}

	got = s.SelectCandidates(playlist, 0, domain.NetworkPoor)
	if len(got) != 1 || got[0].Video.ID != playlist[1].ID {
		t.Fatalf("Poor: got %+v, want [playlist[1]]", got)
	}

	got = s.SelectCandidates(playlist, 0, domain.NetworkOffline)
	if len(got) != 0 {
		t.Fatalf("Offline: got %+v, want []", got)
	}
}

func TestAdjacentVideoOutOfBounds(t *testing.T) {
	playlist := playlistOf(4)
	s := AdjacentVideo{}

	if got := s.SelectCandidates(playlist, -1, domain.NetworkExcellent); got != nil {
		t.Fatalf("negative index: got %+v, want nil", got)
	}
	if got := s.SelectCandidates(playlist, 4, domain.NetworkExcellent); got != nil {
		t.Fatalf("index == len: got %+v, want nil", got)
	}
}

func TestAdjacentVideoSinglePlaylistEntry(t *testing.T) {
	playlist := playlistOf(1)
	s := AdjacentVideo{}
	if got := s.SelectCandidates(playlist, 0, domain.NetworkExcellent); got != nil {
		t.Fatalf("single-entry playlist: got %+v, want nil", got)
	}
}

func TestAdjacentVideoBoundedByPlaylistLength(t *testing.T) {
	playlist := playlistOf(2)
	s := AdjacentVideo{}
	got := s.SelectCandidates(playlist, 0, domain.NetworkExcellent)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want min(2, len-1-0)=1", len(got))
	}
}

func TestCandidateCountAcrossAllQualityLevels(t *testing.T) {
	playlist := playlistOf(6)
	s := AdjacentVideo{}

	cases := []struct {
		quality domain.NetworkQuality
		k       int
	}{
		{domain.NetworkOffline, 0},
		{domain.NetworkPoor, 1},
		{domain.NetworkFair, 2},
		{domain.NetworkGood, 2},
		{domain.NetworkExcellent, 2},
	}
	currentIndex := 2
	for _, c := range cases {
		want := c.k
		if remaining := len(playlist) - currentIndex - 1; want > remaining {
			want = remaining
		}
		got := s.SelectCandidates(playlist, currentIndex, c.quality)
		if len(got) != want {
			t.Errorf("quality=%v: got %d candidates, want %d", c.quality, len(got), want)
		}
	}
}
