package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost is a parsed mana cost.
type Cost struct {
	Generic int
	Colored map[Type]int
	// X reports an {X} in the cost; the chosen value is decided at
	// cast time and added to Generic by the caller.
	X bool
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses cost notation such as "{2}{U}{U}" or "{X}{R}". An
// empty string is a free cost.
func ParseCost(s string) (Cost, error) {
	cost := Cost{Colored: make(map[Type]int)}
	if s == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return Cost{}, fmt.Errorf("malformed mana cost %q", s)
	}

	for _, m := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(m[1]))
		switch symbol {
		case "X":
			cost.X = true
		case "W", "U", "B", "R", "G", "C":
			cost.Colored[Type(symbol)]++
		default:
			n, err := strconv.Atoi(symbol)
			if err != nil || n < 0 {
				return Cost{}, fmt.Errorf("unknown mana symbol {%s} in %q", symbol, s)
			}
			cost.Generic += n
		}
	}
	return cost, nil
}

// MustParseCost is ParseCost for costs known good at compile time.
func MustParseCost(s string) Cost {
	cost, err := ParseCost(s)
	if err != nil {
		panic(err)
	}
	return cost
}

// ConvertedValue returns the cost's total, counting X as zero.
func (c Cost) ConvertedValue() int {
	total := c.Generic
	for _, n := range c.Colored {
		total += n
	}
	return total
}

// IsFree reports a cost with no symbols at all.
func (c Cost) IsFree() bool {
	return c.Generic == 0 && len(c.Colored) == 0 && !c.X
}

// WithX returns a copy with the X value folded into Generic.
func (c Cost) WithX(x int) Cost {
	if !c.X || x < 0 {
		return c
	}
	out := Cost{Generic: c.Generic + x, Colored: make(map[Type]int, len(c.Colored))}
	for t, n := range c.Colored {
		out.Colored[t] = n
	}
	return out
}

func (c Cost) String() string {
	var b strings.Builder
	if c.X {
		b.WriteString("{X}")
	}
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for _, t := range colorOrder {
		for i := 0; i < c.Colored[t]; i++ {
			fmt.Fprintf(&b, "{%s}", t)
		}
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
