package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/capcall/errors"
)

// Coins is a set of coins, one entry per denomination.
//
// All methods treat the receiver as read only and return new instances.
type Coins []*Coin

// CombineCoins creates a Coins set containing all given coins. Coins of the
// same denomination are added together.
func CombineCoins(cs ...Coin) (Coins, error) {
	var res Coins
	for _, c := range cs {
		var err error
		res, err = res.Add(c)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Clone returns a deep copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Validate requires that every coin is valid and positive and that
// denominations are unique.
func (cs Coins) Validate() error {
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "non-positive coin %s", c)
		}
		if _, ok := seen[c.Denom]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "denom %q", c.Denom)
		}
		seen[c.Denom] = struct{}{}
	}
	return nil
}

// IsEmpty returns true if there is no coin with a positive amount.
func (cs Coins) IsEmpty() bool {
	for _, c := range cs {
		if c != nil && c.IsPositive() {
			return false
		}
	}
	return true
}

// Balance returns the amount held for the given denomination.
func (cs Coins) Balance(denom string) Coin {
	for _, c := range cs {
		if c != nil && c.Denom == denom {
			return *c
		}
	}
	return NewCoin(0, denom)
}

// Contains returns true if the set holds at least the given coin value.
func (cs Coins) Contains(c Coin) bool {
	return cs.Balance(c.Denom).Amount >= c.Amount
}

// Equals returns true if both sets hold exactly the same amounts of exactly
// the same denominations. Order is not relevant.
func (cs Coins) Equals(other Coins) bool {
	a, b := cs.normalized(), other.normalized()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(*b[i]) {
			return false
		}
	}
	return true
}

// Add returns a new set with the given coin added.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	res := cs.Clone()
	for _, have := range res {
		if have.Denom != c.Denom {
			continue
		}
		sum, err := have.Add(c)
		if err != nil {
			return nil, err
		}
		have.Amount = sum.Amount
		return res.normalized(), nil
	}
	res = append(res, &c)
	return res.normalized(), nil
}

// Subtract returns a new set with the given coin removed. It fails if the
// set does not contain enough.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if !cs.Contains(c) {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "have %s, want %s", cs, c)
	}
	res := cs.Clone()
	for _, have := range res {
		if have.Denom == c.Denom {
			have.Amount -= c.Amount
		}
	}
	return res.normalized(), nil
}

// String returns a comma separated list of coins in their compact form.
func (cs Coins) String() string {
	norm := cs.normalized()
	parts := make([]string, len(norm))
	for i, c := range norm {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// normalized returns the positive coins sorted by denomination.
func (cs Coins) normalized() Coins {
	res := make(Coins, 0, len(cs))
	for _, c := range cs {
		if c != nil && c.IsPositive() {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Denom < res[j].Denom })
	return res
}
