package grants

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// Grant confers a Grantable on cards. It names either a single card
// (TargetID) or a class of cards (Filter), scoped to a zone and a
// player, and carries the source that governs its lifetime.
type Grant struct {
	// TargetID names a specific card. Empty when Filter is used.
	TargetID string
	// Filter selects cards by characteristics. Nil when TargetID is
	// used.
	Filter *rules.ObjectFilter
	// Zone the card must occupy for the grant to apply.
	Zone rules.Zone
	// Player whose cards the grant applies to.
	Player    string
	Grantable Grantable
	Source    Source
}

func (g Grant) Display() string {
	subject := g.TargetID
	if g.Filter != nil {
		subject = "matching cards"
	}
	return fmt.Sprintf("%s in %s gains %s (%s)", subject, g.Zone, g.Grantable.Display(), g.Source)
}

// Equal reports whether two grants confer the same thing on the same
// cards. Source is deliberately excluded so redundant grants from
// different sources collapse to one.
func (g Grant) Equal(other Grant) bool {
	if g.TargetID != other.TargetID || g.Zone != other.Zone || g.Player != other.Player {
		return false
	}
	if (g.Filter == nil) != (other.Filter == nil) {
		return false
	}
	if g.Filter != nil && !g.Filter.Equal(*other.Filter) {
		return false
	}
	return g.Grantable.Equal(other.Grantable)
}

// AppliesTo reports whether the grant covers the given card for the
// given player and zone. Filter grants resolve the card through the
// world; a card that cannot be resolved matches only by TargetID.
func (g Grant) AppliesTo(w rules.World, card string, zone rules.Zone, player string) bool {
	if g.Player != player || g.Zone != zone {
		return false
	}
	if g.TargetID != "" {
		return g.TargetID == card
	}
	if g.Filter == nil {
		return false
	}
	obj, ok := w.Object(card)
	if !ok {
		return false
	}
	f := *g.Filter
	// The zone check already happened above against the grant's own
	// zone; the filter's zone constraint would compare against the
	// object's current zone, which for play-from grants is the point.
	return f.Matches(obj, w.FilterContextFor(player, g.Source.SourceID))
}

// Registry stores active grants and resolves which apply to a card. It
// also merges in grants generated on the fly by static abilities of
// battlefield permanents, so a permanent leaving the battlefield stops
// granting without bookkeeping.
type Registry struct {
	mu     sync.RWMutex
	grants []Grant
	logger *zap.Logger
}

// NewRegistry builds an empty registry. A nil logger disables logging.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// AddGrant stores a grant, dropping it if an equal grant is already
// present.
func (r *Registry) AddGrant(g Grant) {
	if g.Filter != nil {
		f := normalizeFilter(*g.Filter)
		g.Filter = &f
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.grants {
		if existing.Equal(g) {
			return
		}
	}
	r.grants = append(r.grants, g)
	r.logger.Debug("grant added",
		zap.String("grant", g.Display()),
		zap.String("source", g.Source.String()))
}

// GrantToCard grants a grantable to one specific card.
func (r *Registry) GrantToCard(card string, zone rules.Zone, player string, grantable Grantable, source Source) {
	r.AddGrant(Grant{TargetID: card, Zone: zone, Player: player, Grantable: grantable, Source: source})
}

// GrantToFilter grants a grantable to every card matching the filter.
func (r *Registry) GrantToFilter(filter rules.ObjectFilter, zone rules.Zone, player string, grantable Grantable, source Source) {
	f := normalizeFilter(filter)
	r.AddGrant(Grant{Filter: &f, Zone: zone, Player: player, Grantable: grantable, Source: source})
}

// GrantAbilityToCard grants a static ability to one card.
func (r *Registry) GrantAbilityToCard(card string, zone rules.Zone, player string, ability rules.StaticAbility, source Source) {
	r.GrantToCard(card, zone, player, Ability(ability), source)
}

// GrantAlternativeCastToCard grants an alternative casting method,
// typically for a card in the graveyard.
func (r *Registry) GrantAlternativeCastToCard(card string, zone rules.Zone, player string, method CastMethod, source Source) {
	r.GrantToCard(card, zone, player, AlternativeCast(method), source)
}

// GrantPlayFromZone permits playing cards matching the filter from the
// given zone.
func (r *Registry) GrantPlayFromZone(filter rules.ObjectFilter, zone rules.Zone, player string, source Source) {
	r.GrantToFilter(filter, zone, player, PlayFrom(), source)
}

// RemoveGrantsFromSource drops every stored grant whose source ID
// matches.
func (r *Registry) RemoveGrantsFromSource(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.grants[:0]
	for _, g := range r.grants {
		if g.Source.SourceID != sourceID {
			kept = append(kept, g)
		}
	}
	r.grants = kept
}

// ClearStaticGrants drops every grant whose source is a static
// ability. Called before RefreshStaticGrants rebuilds them.
func (r *Registry) ClearStaticGrants() {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.grants[:0]
	for _, g := range r.grants {
		if g.Source.Kind != SourceStaticAbility {
			kept = append(kept, g)
		}
	}
	r.grants = kept
}

// RefreshStaticGrants rebuilds grants generated by static abilities of
// battlefield permanents. Existing static grants are cleared first so
// the stored set always mirrors the battlefield.
func (r *Registry) RefreshStaticGrants(w rules.World) {
	r.ClearStaticGrants()
	for _, id := range w.Battlefield() {
		obj, ok := w.Object(id)
		if !ok {
			continue
		}
		controller := obj.Controller()
		for _, ability := range obj.Abilities() {
			provider, ok := ability.(Provider)
			if !ok {
				continue
			}
			spec, ok := provider.GrantSpec()
			if !ok {
				continue
			}
			f := normalizeFilter(spec.Filter)
			r.AddGrant(Grant{
				Filter:    &f,
				Zone:      spec.Zone,
				Player:    controller,
				Grantable: spec.Grantable,
				Source:    FromStaticAbility(id),
			})
		}
	}
}

// CleanupExpired drops grants no longer valid for the given turn
// number and battlefield. Runs during the cleanup step.
func (r *Registry) CleanupExpired(turnNumber int, battlefield []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.grants[:0]
	for _, g := range r.grants {
		if g.Source.IsValidRaw(turnNumber, battlefield) {
			kept = append(kept, g)
		} else {
			r.logger.Debug("grant expired", zap.String("grant", g.Display()))
		}
	}
	r.grants = kept
}

// GetGrantsForCard returns every grantable currently applying to the
// card in the given zone for the given player: stored grants that are
// still valid, merged with grants generated on the fly by static
// abilities of battlefield permanents the player controls. Redundant
// grants collapse to one.
func (r *Registry) GetGrantsForCard(w rules.World, card string, zone rules.Zone, player string) []Grant {
	turn := 0
	if ts := w.Turn(); ts != nil {
		turn = ts.TurnNumber
	}
	battlefield := w.Battlefield()

	var out []Grant
	add := func(g Grant) {
		for _, existing := range out {
			if existing.Equal(g) {
				return
			}
		}
		out = append(out, g)
	}

	r.mu.RLock()
	stored := make([]Grant, len(r.grants))
	copy(stored, r.grants)
	r.mu.RUnlock()

	for _, g := range stored {
		if !g.Source.IsValidRaw(turn, battlefield) {
			continue
		}
		if g.AppliesTo(w, card, zone, player) {
			add(g)
		}
	}

	// Static abilities grant continuously, so scan the battlefield
	// directly rather than trusting the stored snapshot.
	for _, id := range w.PermanentsControlledBy(player) {
		obj, ok := w.Object(id)
		if !ok {
			continue
		}
		for _, ability := range obj.Abilities() {
			provider, ok := ability.(Provider)
			if !ok {
				continue
			}
			spec, ok := provider.GrantSpec()
			if !ok {
				continue
			}
			f := normalizeFilter(spec.Filter)
			g := Grant{
				Filter:    &f,
				Zone:      spec.Zone,
				Player:    player,
				Grantable: spec.Grantable,
				Source:    FromStaticAbility(id),
			}
			if g.AppliesTo(w, card, zone, player) {
				add(g)
			}
		}
	}
	return out
}

// CardHasGrantedAbility reports whether any grant confers the given
// ability ID on the card.
func (r *Registry) CardHasGrantedAbility(w rules.World, card string, zone rules.Zone, player, abilityID string) bool {
	for _, g := range r.GetGrantsForCard(w, card, zone, player) {
		if g.Grantable.Kind == GrantAbility && g.Grantable.Ability != nil &&
			g.Grantable.Ability.AbilityID() == abilityID {
			return true
		}
	}
	return false
}

// GrantedAbilitiesForCard returns the static abilities grants confer
// on the card.
func (r *Registry) GrantedAbilitiesForCard(w rules.World, card string, zone rules.Zone, player string) []rules.StaticAbility {
	var out []rules.StaticAbility
	for _, g := range r.GetGrantsForCard(w, card, zone, player) {
		if g.Grantable.Kind == GrantAbility && g.Grantable.Ability != nil {
			out = append(out, g.Grantable.Ability)
		}
	}
	return out
}

// GrantedAlternativeCastsForCard returns the alternative casting
// methods grants confer on the card. Flashback-at-own-cost surfaces as
// a flashback method with an empty cost.
func (r *Registry) GrantedAlternativeCastsForCard(w rules.World, card string, zone rules.Zone, player string) []CastMethod {
	var out []CastMethod
	for _, g := range r.GetGrantsForCard(w, card, zone, player) {
		switch g.Grantable.Kind {
		case GrantAlternativeCast:
			out = append(out, g.Grantable.Method)
		case GrantFlashbackOwnCost:
			out = append(out, CastMethod{Kind: CastFlashback})
		}
	}
	return out
}

// CardCanPlayFromZone reports whether any grant permits playing the
// card from the given zone.
func (r *Registry) CardCanPlayFromZone(w rules.World, card string, zone rules.Zone, player string) bool {
	for _, g := range r.GetGrantsForCard(w, card, zone, player) {
		if g.Grantable.Kind == GrantPlayFrom {
			return true
		}
	}
	return false
}

// ActiveGrants returns a snapshot of the stored grants.
func (r *Registry) ActiveGrants() []Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Grant, len(r.grants))
	copy(out, r.grants)
	return out
}

// Size returns the number of stored grants.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.grants)
}

// normalizeFilter deduplicates the filter's type lists so that
// logically equal filters compare equal. The caller's slices are left
// untouched.
func normalizeFilter(f rules.ObjectFilter) rules.ObjectFilter {
	f.CardTypes = dedupe(f.CardTypes)
	f.ExcludedCardTypes = dedupe(f.ExcludedCardTypes)
	f.Subtypes = dedupe(f.Subtypes)
	f.Supertypes = dedupe(f.Supertypes)
	return f
}

func dedupe[T comparable](in []T) []T {
	if len(in) == 0 {
		return in
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
