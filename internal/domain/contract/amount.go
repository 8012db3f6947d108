// internal/domain/contract/amount.go
package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

var ErrInvalidAmount = errors.New("contract: invalid amount")

// Amount is a yoctoNEAR-denominated quantity (1 NEAR = 10^24 yocto).
// On the wire it is a decimal string; plain JSON numbers are accepted on input.
type Amount struct {
	v uint256.Int
}

// OneYocto is the deposit attached to owner-side change calls.
var OneYocto = NewAmount(1)

func NewAmount(u uint64) Amount {
	return Amount{v: *uint256.NewInt(u)}
}

// ParseAmount parses a non-negative base-10 integer.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok || b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, fmt.Errorf("%w: %q overflows 256 bits", ErrInvalidAmount, s)
	}
	return Amount{v: *u}, nil
}

func (a Amount) String() string {
	return a.v.ToBig().String()
}

func (a Amount) IsZero() bool { return a.v.IsZero() }

func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
	}
	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
