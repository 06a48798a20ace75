package backend

import (
	_ "embed"
	"encoding/json"
)

//go:embed seed.json
var defaultSeed []byte

// DefaultSeed returns the demo data served when no seed file is given.
func DefaultSeed() *Seed {
	var s Seed
	if err := json.Unmarshal(defaultSeed, &s); err != nil {
		panic(err)
	}
	return &s
}
