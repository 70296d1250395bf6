package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall/errors"
)

var (
	// IsDenom is the RegExp to ensure valid denominations, such as
	// "cfigure", "nhash" or "ibc/27394FB0".
	IsDenom = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`).MatchString

	coinPattern = regexp.MustCompile(`^\s*([0-9]+)\s*([a-zA-Z][a-zA-Z0-9/:._-]{2,127})\s*$`)
)

// Coin is an amount of a single denomination. Amounts are whole base units,
// there is no fractional part.
type Coin struct {
	Denom  string `protobuf:"bytes,1,opt,name=denom,proto3" json:"denom"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

var _ proto.Message = (*Coin)(nil)

// NewCoin creates a new coin object
func NewCoin(amount uint64, denom string) Coin {
	return Coin{
		Denom:  denom,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, denom string) *Coin {
	c := NewCoin(amount, denom)
	return &c
}

// ParseCoin reads the compact representation, like "1000000cfigure".
func ParseCoin(s string) (Coin, error) {
	m := coinPattern.FindStringSubmatch(s)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "cannot parse coin %q", s)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", m[1])
	}
	return NewCoin(amount, m[2]), nil
}

func (c *Coin) Reset() { *c = Coin{} }

func (*Coin) ProtoMessage() {}

// String provides a human readable representation of the coin, compatible
// with ParseCoin.
func (c Coin) String() string {
	return fmt.Sprintf("%d%s", c.Amount, c.Denom)
}

// ID returns a coin denomination.
func (c Coin) ID() string {
	return c.Denom
}

// Validate ensures that the denomination is well formed. A zero amount is
// valid, use IsPositive to require a value.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid denom %q", c.Denom)
	}
	return nil
}

// IsZero returns true if the amount is 0.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the amount is greater than zero.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// SameDenom returns true if the two coins are of the same denomination.
func (c Coin) SameDenom(o Coin) bool {
	return c.Denom == o.Denom
}

// Equals returns true if both the denomination and the amount are exactly
// the same. There is no tolerance of any kind.
func (c Coin) Equals(o Coin) bool {
	return c.Denom == o.Denom && c.Amount == o.Amount
}

// Clone returns a copy of this coin.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Add combines two coins of the same denomination. It fails on a
// denomination mismatch or when the sum does not fit.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameDenom(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Denom, c.Denom)
	}
	if o.Amount > math.MaxUint64-c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	return NewCoin(c.Amount+o.Amount, c.Denom), nil
}

// Subtract removes given coin value from this one. It fails if there is not
// enough to subtract from.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameDenom(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Denom, c.Denom)
	}
	if o.Amount > c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", c, o)
	}
	return NewCoin(c.Amount-o.Amount, c.Denom), nil
}

// UnmarshalJSON accepts both the structured form
//   {"denom": "cfigure", "amount": 1000000}
// where the amount may also be a decimal string, and the compact string form
//   "1000000cfigure"
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var compact string
	if err := json.Unmarshal(raw, &compact); err == nil {
		parsed, err := ParseCoin(compact)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var structured struct {
		Denom  string          `json:"denom"`
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(raw, &structured); err != nil {
		return errors.Wrap(errors.ErrCurrency, "invalid coin format")
	}
	amount, err := parseAmount(structured.Amount)
	if err != nil {
		return err
	}
	*c = NewCoin(amount, structured.Denom)
	return nil
}

func parseAmount(raw json.RawMessage) (uint64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errors.Wrap(errors.ErrAmount, "amount must be a number")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrAmount, "amount %q", s)
	}
	return n, nil
}
