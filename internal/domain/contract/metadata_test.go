package contract_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
)

func TestMetadata_DecodePresence(t *testing.T) {
	raw := `{
		"mint_royalty_id": "alice.near",
		"mint_royalty_amount": 25,
		"mint_price": "1000000000000000000000000",
		"packages_script": "p",
		"render_script": "r",
		"style_css": null
	}`

	var m contract.Metadata
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	id, ok := m.MintRoyaltyID.Get()
	require.True(t, ok)
	assert.Equal(t, "alice.near", id)

	amount, ok := m.MintRoyaltyAmount.Get()
	require.True(t, ok)
	assert.Equal(t, 25, amount)

	price, err := m.Price()
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", price.String())

	assert.False(t, m.StyleCSS.Present(), "null decodes as absent")
	assert.False(t, m.Parameters.Present(), "missing key decodes as absent")

	_, _, _, err = m.DesignScripts()
	var missing *contract.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "style_css", missing.Field)
	assert.ErrorIs(t, err, contract.ErrMissingField)
}

func TestMetadata_MissingPrice(t *testing.T) {
	var m contract.Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"mint_royalty_id":"a.near"}`), &m))

	_, err := m.Price()
	assert.ErrorIs(t, err, contract.ErrMissingMintPrice)
	assert.ErrorIs(t, err, contract.ErrMissingField)
}

func TestAmount_JSON(t *testing.T) {
	var fromNumber, fromString contract.Amount
	require.NoError(t, json.Unmarshal([]byte(`12345`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"12345"`), &fromString))
	assert.Equal(t, 0, fromNumber.Cmp(fromString))

	out, err := json.Marshal(fromNumber)
	require.NoError(t, err)
	assert.JSONEq(t, `"12345"`, string(out))

	var bad contract.Amount
	assert.ErrorIs(t, json.Unmarshal([]byte(`"-1"`), &bad), contract.ErrInvalidAmount)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"1.5"`), &bad), contract.ErrInvalidAmount)

	assert.Equal(t, "1", contract.OneYocto.String())
	assert.True(t, contract.Amount{}.IsZero())
}

func TestRejectionError_Verbatim(t *testing.T) {
	err := error(&contract.RejectionError{Method: contract.MethodMint, Reason: "insufficient deposit"})

	assert.Equal(t, "insufficient deposit", err.Error())
	assert.True(t, contract.IsRejection(err))
	assert.True(t, errors.Is(err, contract.ErrChainRejection))
	assert.False(t, contract.IsRejection(errors.New("insufficient deposit")))
}

func TestGasBudgets(t *testing.T) {
	assert.Equal(t, contract.Gas(300_000_000_000_000), contract.ClaimGas)
	assert.Equal(t, contract.Gas(290_000_000_000_000), contract.BurnGas)
	assert.Equal(t, contract.Gas(250_000_000_000_000), contract.AcceptBidGas)
	assert.Equal(t, contract.Gas(200_000_000_000_000), contract.DesignGas)
}
