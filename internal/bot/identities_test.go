package bot

import (
	"math/rand/v2"
	"testing"

	"github.com/mondrodigital/horse-race/internal/domain"
)

func TestGetIdentityCyclesPool(t *testing.T) {
	first := GetIdentity(0)
	if first.Name == "" || first.Avatar == "" {
		t.Fatalf("identity 0 is incomplete: %+v", first)
	}

	if got := GetIdentity(len(pool)); got != first {
		t.Fatalf("identity should cycle modulo pool size: got %+v, want %+v", got, first)
	}
	if GetIdentity(1) == first {
		t.Fatalf("adjacent bots should not share an identity")
	}
	if got := GetIdentity(-1); got != first {
		t.Fatalf("negative ordinal should clamp to the first identity, got %+v", got)
	}
}

func TestBotIDs(t *testing.T) {
	a := NewBotID()
	b := NewBotID()

	if a == b {
		t.Fatalf("bot ids must be unique, got %s twice", a)
	}
	if !IsBot(a) || !IsBot(b) {
		t.Fatalf("generated ids must be recognized as bots")
	}
	if IsBot("conn-1") || IsBot("") {
		t.Fatalf("human ids must not be recognized as bots")
	}
}

func TestPickBetBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	seenSuits := make(map[domain.Suit]bool)

	for i := 0; i < 200; i++ {
		bet := PickBet(rng, 1, 5)
		if !domain.ValidSuit(bet.Suit) {
			t.Fatalf("picked invalid suit %q", bet.Suit)
		}
		if bet.Amount < 1 || bet.Amount > 5 {
			t.Fatalf("picked stake %d outside [1,5]", bet.Amount)
		}
		seenSuits[bet.Suit] = true
	}

	if len(seenSuits) != 4 {
		t.Fatalf("expected all four suits over 200 picks, saw %d", len(seenSuits))
	}

	// Degenerate range collapses to the minimum.
	if bet := PickBet(rng, 3, 2); bet.Amount != 3 {
		t.Fatalf("inverted range should pin the stake to minStake, got %d", bet.Amount)
	}
}
