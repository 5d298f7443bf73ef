package flatten

import (
	"strings"

	"github.com/dexflow/dexflow/internal/dataset"
	"github.com/dexflow/dexflow/internal/pokeapi"
)

const englishLanguage = "en"

// Species normalizes a raw species document into a flat record. The
// evolution chain, when present, is folded into the chain string and the
// progress ratio; the raw chain itself is dropped.
func Species(s *pokeapi.Species, chain *pokeapi.EvolutionChain) dataset.Record {
	if s == nil {
		return nil
	}

	rec := dataset.Record{
		"name":           s.Name,
		"color":          s.Color.Name,
		"shape":          s.Shape.Name,
		"growth_rate":    s.GrowthRate.Name,
		"generation":     s.Generation.Name,
		"capture_rate":   s.CaptureRate,
		"base_happiness": s.BaseHappiness,
		"gender_rate":    s.GenderRate,
		"hatch_counter":  s.HatchCounter,
		"is_baby":        s.IsBaby,
		"is_legendary":   s.IsLegendary,
		"is_mythical":    s.IsMythical,
	}

	if s.Habitat != nil {
		rec["habitat"] = s.Habitat.Name
	}

	if genus, ok := englishGenus(s.Genera); ok {
		rec["genus"] = genus
	}

	if len(s.EggGroups) > 0 {
		groups := make([]string, 0, len(s.EggGroups))
		for _, g := range s.EggGroups {
			groups = append(groups, g.Name)
		}
		rec["egg_groups"] = groups
	}

	// Encounter data explodes into three scalar fields.
	if len(s.PalParkEncounters) > 0 {
		enc := s.PalParkEncounters[0]
		rec["pal_park_base_score"] = enc.BaseScore
		rec["pal_park_rate"] = enc.Rate
		rec["pal_park_area"] = enc.Area.Name
	}

	stages := WalkChain(chain)
	if len(stages) > 0 {
		rec["evolution_chain"] = ChainNames(stages)
		if progress, ok := Progress(stages, s.Name); ok {
			rec["evolution_progress"] = progress
		}
	}

	return rec
}

// Pokemon normalizes a raw pokemon document: the stat list pivots long to
// wide as base_<stat> fields, and moves/items/types/abilities reduce to
// name lists.
func Pokemon(p *pokeapi.Pokemon) dataset.Record {
	if p == nil {
		return nil
	}

	rec := dataset.Record{
		"height":          p.Height,
		"weight":          p.Weight,
		"base_experience": p.BaseExperience,
	}

	for _, s := range p.Stats {
		rec[statColumn(s.Stat.Name)] = s.BaseStat
	}

	if types := typeNames(p.Types); len(types) > 0 {
		rec["types"] = types
	}
	if abilities := abilityNames(p.Abilities); len(abilities) > 0 {
		rec["abilities"] = abilities
	}
	if moves := moveNames(p.Moves); len(moves) > 0 {
		rec["moves"] = moves
	}
	if items := itemNames(p.HeldItems); len(items) > 0 {
		rec["held_items"] = items
	}

	return rec
}

func englishGenus(genera []pokeapi.Genus) (string, bool) {
	for _, g := range genera {
		if g.Language.Name == englishLanguage {
			return g.Genus, true
		}
	}
	return "", false
}

func statColumn(name string) string {
	return "base_" + strings.ReplaceAll(name, "-", "_")
}

func typeNames(types []pokeapi.PokemonType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Type.Name)
	}
	return names
}

func abilityNames(abilities []pokeapi.PokemonAbility) []string {
	names := make([]string, 0, len(abilities))
	for _, a := range abilities {
		names = append(names, a.Ability.Name)
	}
	return names
}

func moveNames(moves []pokeapi.PokemonMove) []string {
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.Move.Name)
	}
	return names
}

func itemNames(items []pokeapi.HeldItem) []string {
	names := make([]string, 0, len(items))
	for _, i := range items {
		names = append(names, i.Item.Name)
	}
	return names
}
