package flatten

import (
	"strings"

	"github.com/dexflow/dexflow/internal/pokeapi"
)

// Stage is one species in a flattened evolution chain. Level starts at 1
// for the chain root and increments per evolution step.
type Stage struct {
	Name  string
	Level int
}

// WalkChain flattens an evolution chain depth-first, children visited in
// declaration order. A node with no further evolutions terminates its
// branch; a node with no species name is treated as terminal rather than
// an error.
func WalkChain(chain *pokeapi.EvolutionChain) []Stage {
	if chain == nil {
		return nil
	}
	var stages []Stage
	walk(chain.Chain, 1, &stages)
	return stages
}

func walk(node pokeapi.ChainLink, level int, out *[]Stage) {
	if node.Species.Name == "" {
		return
	}
	*out = append(*out, Stage{Name: node.Species.Name, Level: level})
	for _, child := range node.EvolvesTo {
		walk(child, level+1, out)
	}
}

// ChainNames joins every species name in traversal order into a single
// table cell.
func ChainNames(stages []Stage) string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func MaxLevel(stages []Stage) int {
	max := 0
	for _, s := range stages {
		if s.Level > max {
			max = s.Level
		}
	}
	return max
}

// Progress returns the species' depth normalized by the chain's maximum
// depth. The second return is false when the species is not in the chain,
// leaving the field null downstream.
func Progress(stages []Stage, name string) (float64, bool) {
	max := MaxLevel(stages)
	if max == 0 {
		return 0, false
	}
	for _, s := range stages {
		if s.Name == name {
			return float64(s.Level) / float64(max), true
		}
	}
	return 0, false
}
