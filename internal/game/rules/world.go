package rules

import "fmt"

// Zone identifies a game zone an object can occupy.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneLibrary
	ZoneHand
	ZoneBattlefield
	ZoneGraveyard
	ZoneExile
	ZoneStack
	ZoneCommand
)

var zoneNames = map[Zone]string{
	ZoneNone:        "NONE",
	ZoneLibrary:     "LIBRARY",
	ZoneHand:        "HAND",
	ZoneBattlefield: "BATTLEFIELD",
	ZoneGraveyard:   "GRAVEYARD",
	ZoneExile:       "EXILE",
	ZoneStack:       "STACK",
	ZoneCommand:     "COMMAND",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// CardType is a card type line entry ("creature", "land", ...).
type CardType string

const (
	CardTypeCreature     CardType = "creature"
	CardTypeLand         CardType = "land"
	CardTypeArtifact     CardType = "artifact"
	CardTypeEnchantment  CardType = "enchantment"
	CardTypeInstant      CardType = "instant"
	CardTypeSorcery      CardType = "sorcery"
	CardTypePlaneswalker CardType = "planeswalker"
)

// CounterType names a kind of counter placed on permanents.
type CounterType string

const (
	CounterPlusOnePlusOne   CounterType = "+1/+1"
	CounterMinusOneMinusOne CounterType = "-1/-1"
	CounterCharge           CounterType = "charge"
	CounterLoyalty          CounterType = "loyalty"
)

// TargetKind distinguishes player targets from object targets.
type TargetKind int

const (
	TargetPlayer TargetKind = iota
	TargetObject
)

// Target references either a player or an object.
type Target struct {
	Kind TargetKind
	ID   string
}

// PlayerTarget builds a player target.
func PlayerTarget(playerID string) Target {
	return Target{Kind: TargetPlayer, ID: playerID}
}

// ObjectTarget builds an object target.
func ObjectTarget(objectID string) Target {
	return Target{Kind: TargetObject, ID: objectID}
}

// Object is the read-only view of a game object the rules core consults.
// The world model owns the mutable representation.
type Object interface {
	ID() string
	Controller() string
	Owner() string
	Zone() Zone
	IsTapped() bool
	HasSummoningSickness() bool
	CardTypes() []CardType
	Subtypes() []string
	Supertypes() []string

	// Abilities returns the object's static abilities. Capability hooks
	// beyond StaticAbility (replacement generation, grant specs) are
	// discovered by type assertion on the returned values.
	Abilities() []StaticAbility
}

// StaticAbility is the capability surface of a printed or granted static
// ability. Richer hooks are optional interfaces asserted by consumers:
// the effects package looks for GenerateReplacementEffect, the grants
// package for GrantSpec.
type StaticAbility interface {
	AbilityID() string
	Display() string

	// AffectsUntap reports "doesn't untap during your untap step".
	AffectsUntap() bool

	// EntersTapped reports "enters the battlefield tapped".
	EntersTapped() bool
}

// World is the read surface of the mutable game state. It is the sole
// source of truth; the rules core never caches what it can look up here.
type World interface {
	Object(id string) (Object, bool)
	PlayerInGame(id string) bool
	PlayersInGame() int
	TurnOrder() []string
	Battlefield() []string
	PermanentsControlledBy(player string) []string
	StackIsEmpty() bool
	Turn() *TurnState
	FilterContextFor(controller, source string) FilterContext
}

// StepWorld extends World with the mutations the step executors perform.
// Only the turn module drives these; no other component may mutate
// TurnState directly.
type StepWorld interface {
	World

	Untap(id string)
	ClearSummoningSickness(id string)

	// ConsumeSkipDrawFlag removes a pending "skip your next draw step"
	// flag for the player, reporting whether one was set.
	ConsumeSkipDrawFlag(player string) bool
	CanDrawExtraCards(player string) bool
	CardsDrawnThisTurn(player string) int
	DrawCards(player string, count int) []string
	NoteCardsDrawn(player string, count int)

	Hand(player string) []string
	MaxHandSize(player string) int

	EmptyManaPool(player string)
	ClearDamage(id string)
	ClearRegenerationShields(id string)
	ClearEndOfTurnRestrictions()

	// NextTurn wraps the turn structure: increments the turn number,
	// rotates the active player, and resets phase and step.
	NextTurn()
}
