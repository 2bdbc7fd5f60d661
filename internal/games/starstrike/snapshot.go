package starstrike

// Snapshot captures the visible game state for determinism checks.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick     uint64
	Score    int
	Lives    int
	Level    int
	Coins    int
	Kills    int
	Combo    int
	MaxCombo int
	State    string

	ShipX int
	Shots int

	// Each sprite is 7 ints: Kind, X, Y, W, H, Variant, Frame
	SpriteCount int
	SpriteData  []int

	ClockNanos int64
	RNGState   uint64
}

// spriteInts is the number of ints stored per sprite.
const spriteInts = 7

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	sprites := g.stage.Sprites()
	data := make([]int, len(sprites)*spriteInts)
	for i, sp := range sprites {
		idx := i * spriteInts
		data[idx] = int(sp.Kind)
		data[idx+1] = sp.X
		data[idx+2] = sp.Y
		data[idx+3] = sp.W
		data[idx+4] = sp.H
		data[idx+5] = sp.Variant
		data[idx+6] = sp.Frame
	}

	return Snapshot{
		Tick:     g.tick,
		Score:    g.score,
		Lives:    g.lives,
		Level:    g.level,
		Coins:    g.coins,
		Kills:    g.kills,
		Combo:    g.stage.Resolver.Combo(),
		MaxCombo: g.maxCombo,
		State:    g.state,

		ShipX: g.stage.Ship.X,
		Shots: g.stage.Ship.Shots,

		SpriteCount: len(sprites),
		SpriteData:  data,

		ClockNanos: int64(g.clock.Now()),
		RNGState:   g.rng.State(),
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Level)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Coins)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Kills)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Combo)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.MaxCombo)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ShipX)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Shots)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SpriteCount) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ClockNanos)  //#nosec G115 -- hash computation

	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}
	for _, v := range snap.SpriteData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	h = h*31 + snap.RNGState

	return h
}
