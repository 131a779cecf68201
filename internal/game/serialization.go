package game

import (
	"encoding/json"
)

// CardView is a card rendered for clients.
type CardView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	ManaCost   string         `json:"mana_cost,omitempty"`
	Types      []string       `json:"types"`
	Subtypes   []string       `json:"subtypes,omitempty"`
	Zone       string         `json:"zone"`
	Tapped     bool           `json:"tapped"`
	Damage     int            `json:"damage,omitempty"`
	Controller string         `json:"controller"`
	Owner      string         `json:"owner"`
	Counters   map[string]int `json:"counters,omitempty"`
	Abilities  []string       `json:"abilities,omitempty"`
}

// PlayerView is a player rendered for clients.
type PlayerView struct {
	ID           string   `json:"id"`
	Life         int      `json:"life"`
	InGame       bool     `json:"in_game"`
	LibraryCount int      `json:"library_count"`
	Hand         []string `json:"hand"`
	Graveyard    []string `json:"graveyard"`
	Exile        []string `json:"exile"`
	ManaPool     string   `json:"mana_pool"`
	HasPriority  bool     `json:"has_priority"`
}

// StackItemView is a stack entry rendered for clients.
type StackItemView struct {
	ID          string `json:"id"`
	Controller  string `json:"controller"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// Snapshot is a full client-facing view of the game.
type Snapshot struct {
	Turn           int             `json:"turn"`
	Phase          string          `json:"phase"`
	Step           string          `json:"step"`
	ActivePlayer   string          `json:"active_player"`
	PriorityPlayer string          `json:"priority_player"`
	Players        []PlayerView    `json:"players"`
	Battlefield    []CardView      `json:"battlefield"`
	Stack          []StackItemView `json:"stack"`
}

// TakeSnapshot renders the current game state.
func (e *Engine) TakeSnapshot() Snapshot {
	s := e.state
	turn := s.Turn()

	snap := Snapshot{
		Turn:           turn.TurnNumber,
		Phase:          turn.Phase.String(),
		Step:           turn.Step.String(),
		ActivePlayer:   turn.ActivePlayer,
		PriorityPlayer: turn.PriorityPlayer,
	}

	for _, p := range s.TurnOrder() {
		snap.Players = append(snap.Players, PlayerView{
			ID:           p,
			Life:         s.Life(p),
			InGame:       s.PlayerInGame(p),
			LibraryCount: len(s.Library(p)),
			Hand:         s.Hand(p),
			Graveyard:    s.Graveyard(p),
			Exile:        s.Exile(p),
			ManaPool:     s.ManaPool(p).String(),
			HasPriority:  turn.PriorityPlayer == p,
		})
	}

	for _, id := range s.Battlefield() {
		card, ok := s.Card(id)
		if !ok {
			continue
		}
		snap.Battlefield = append(snap.Battlefield, renderCard(card))
	}

	for _, item := range s.Stack().List() {
		snap.Stack = append(snap.Stack, StackItemView{
			ID:          item.ID,
			Controller:  item.Controller,
			Kind:        string(item.Kind),
			Description: item.Description,
		})
	}
	return snap
}

func renderCard(card *Card) CardView {
	view := CardView{
		ID:         card.ID(),
		Name:       card.Name(),
		ManaCost:   card.ManaCost(),
		Zone:       card.Zone().String(),
		Tapped:     card.IsTapped(),
		Damage:     card.Damage(),
		Controller: card.Controller(),
		Owner:      card.Owner(),
	}
	for _, t := range card.CardTypes() {
		view.Types = append(view.Types, string(t))
	}
	view.Subtypes = card.Subtypes()
	counters := card.AllCounters()
	if len(counters) > 0 {
		view.Counters = make(map[string]int, len(counters))
		for t, n := range counters {
			view.Counters[string(t)] = n
		}
	}
	for _, a := range card.Abilities() {
		view.Abilities = append(view.Abilities, a.Display())
	}
	return view
}

// MarshalSnapshot renders the snapshot as JSON.
func (e *Engine) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(e.TakeSnapshot())
}
