package pokeapi

import "strings"

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ResourceList struct {
	Count   int             `json:"count"`
	Results []NamedResource `json:"results"`
}

type Generation struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	MainRegion NamedResource   `json:"main_region"`
	Species    []NamedResource `json:"pokemon_species"`
}

type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

type PalParkEncounter struct {
	BaseScore int           `json:"base_score"`
	Rate      int           `json:"rate"`
	Area      NamedResource `json:"area"`
}

type Variety struct {
	IsDefault bool          `json:"is_default"`
	Pokemon   NamedResource `json:"pokemon"`
}

// Species keeps only the fields the analysis uses. Flavor text, sprites,
// pokedex numbers and localized name tables are never decoded.
type Species struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Color             NamedResource      `json:"color"`
	Habitat           *NamedResource     `json:"habitat"`
	Shape             NamedResource      `json:"shape"`
	GrowthRate        NamedResource      `json:"growth_rate"`
	Generation        NamedResource      `json:"generation"`
	CaptureRate       int                `json:"capture_rate"`
	BaseHappiness     int                `json:"base_happiness"`
	GenderRate        int                `json:"gender_rate"`
	HatchCounter      int                `json:"hatch_counter"`
	IsBaby            bool               `json:"is_baby"`
	IsLegendary       bool               `json:"is_legendary"`
	IsMythical        bool               `json:"is_mythical"`
	EggGroups         []NamedResource    `json:"egg_groups"`
	Genera            []Genus            `json:"genera"`
	PalParkEncounters []PalParkEncounter `json:"pal_park_encounters"`
	EvolutionChain    struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
	Varieties []Variety `json:"varieties"`
}

type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type PokemonAbility struct {
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
	Ability  NamedResource `json:"ability"`
}

type PokemonMove struct {
	Move NamedResource `json:"move"`
}

type HeldItem struct {
	Item NamedResource `json:"item"`
}

type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	BaseExperience int              `json:"base_experience"`
	Stats          []PokemonStat    `json:"stats"`
	Types          []PokemonType    `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Moves          []PokemonMove    `json:"moves"`
	HeldItems      []HeldItem       `json:"held_items"`
}

type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}

type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ResourceIDFromURL extracts the trailing path segment of an API resource
// URL, e.g. ".../evolution-chain/10/" -> "10".
func ResourceIDFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// DefaultVariety returns the name of the species' first default variety,
// or empty when the species has none.
func (s *Species) DefaultVariety() string {
	for _, v := range s.Varieties {
		if v.IsDefault {
			return v.Pokemon.Name
		}
	}
	return ""
}
