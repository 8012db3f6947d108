// internal/infra/indexer/client.go
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
)

// schemaSDL is the subset of the indexer schema the client queries.
const schemaSDL = `
type Query {
	nftContracts(first: Int, where: NftContractFilter): [NftContract!]!
}

input NftContractFilter {
	id: String
}

type NftContract {
	id: ID!
	metadata: NftContractMetadata
}

type NftContractMetadata {
	mint_royalty_id: Account
	mint_royalty_amount: String
	packages_script: String
	render_script: String
	style_css: String
	parameters: String
}

type Account {
	id: ID!
}
`

const contractMetadataQuery = `
query ContractMetadata($id: String!) {
	nftContracts(first: 1, where: { id: $id }) {
		id
		metadata {
			mint_royalty_id {
				id
			}
			mint_royalty_amount
			packages_script
			render_script
			style_css
			parameters
		}
	}
}
`

var (
	ErrNotConfigured      = errors.New("indexer: endpoint not configured")
	ErrContractNotIndexed = errors.New("indexer: contract not indexed")
)

// Client is a GraphQL-over-HTTP client for the NFT indexer. Every query is
// validated against the local schema before it goes on the wire.
type Client struct {
	Endpoint string
	HTTP     *http.Client

	schema *ast.Schema
}

func NewClient(endpoint string) (*Client, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "indexer.graphql", Input: schemaSDL})
	if err != nil {
		return nil, fmt.Errorf("indexer: load schema: %w", err)
	}
	return &Client{
		Endpoint: strings.TrimSpace(endpoint),
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
		schema: schema,
	}, nil
}

// Validate parses and validates a query document against the schema.
func (c *Client) Validate(query string) (*ast.QueryDocument, error) {
	doc, errs := gqlparser.LoadQuery(c.schema, query)
	if len(errs) > 0 {
		return nil, fmt.Errorf("indexer: invalid query: %w", errs)
	}
	return doc, nil
}

type gqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	if c == nil || c.Endpoint == "" || c.HTTP == nil {
		return ErrNotConfigured
	}
	doc, err := c.Validate(query)
	if err != nil {
		return err
	}
	var opName string
	if len(doc.Operations) == 1 {
		opName = doc.Operations[0].Name
	}

	body, err := json.Marshal(gqlRequest{Query: query, OperationName: opName, Variables: vars})
	if err != nil {
		return fmt.Errorf("indexer: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("indexer: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("indexer: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("indexer: http status=%d", resp.StatusCode)
	}

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("indexer: decode response: %w", err)
	}
	if len(gr.Errors) > 0 {
		msgs := make([]string, 0, len(gr.Errors))
		for _, e := range gr.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("indexer: %s", strings.Join(msgs, "; "))
	}
	if out != nil {
		if err := json.Unmarshal(gr.Data, out); err != nil {
			return fmt.Errorf("indexer: unmarshal data: %w", err)
		}
	}
	return nil
}

// ============================================================
// Contract metadata
// ============================================================

// ContractInfo is the indexed view of a contract's creative metadata.
type ContractInfo struct {
	ContractID         string
	RoyaltyBeneficiary string
	RoyaltyAmount      contract.Field[int]
	PackagesScript     string
	RenderScript       string
	StyleCSS           string
	Parameters         string
}

// Metadata converts the indexed values to the contract metadata shape.
// The indexer does not carry mint_price; it stays absent.
func (i ContractInfo) Metadata() contract.Metadata {
	md := contract.Metadata{
		MintRoyaltyAmount: i.RoyaltyAmount,
		PackagesScript:    nonEmpty(i.PackagesScript),
		RenderScript:      nonEmpty(i.RenderScript),
		StyleCSS:          nonEmpty(i.StyleCSS),
	}
	if id := strings.TrimSpace(i.RoyaltyBeneficiary); id != "" {
		md.MintRoyaltyID = contract.Some(id)
	}
	if p := strings.TrimSpace(i.Parameters); p != "" && json.Valid([]byte(p)) {
		md.Parameters = contract.Some(json.RawMessage(p))
	}
	return md
}

func nonEmpty(s string) contract.Field[string] {
	if s == "" {
		return contract.None[string]()
	}
	return contract.Some(s)
}

// flexInt accepts a JSON number or a numeric string.
type flexInt struct {
	contract.Field[int]
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		f.Field = contract.None[int]()
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("indexer: mint_royalty_amount %q: %w", s, err)
	}
	f.Field = contract.Some(n)
	return nil
}

type contractMetadataData struct {
	NftContracts []struct {
		ID       string `json:"id"`
		Metadata *struct {
			MintRoyaltyID *struct {
				ID string `json:"id"`
			} `json:"mint_royalty_id"`
			MintRoyaltyAmount flexInt `json:"mint_royalty_amount"`
			PackagesScript    string  `json:"packages_script"`
			RenderScript      string  `json:"render_script"`
			StyleCSS          string  `json:"style_css"`
			Parameters        string  `json:"parameters"`
		} `json:"metadata"`
	} `json:"nftContracts"`
}

// ContractMetadata fetches the indexed metadata of contractID.
func (c *Client) ContractMetadata(ctx context.Context, contractID string) (ContractInfo, error) {
	contractID = strings.TrimSpace(contractID)
	if contractID == "" {
		return ContractInfo{}, fmt.Errorf("indexer: contractID is empty")
	}

	var data contractMetadataData
	if err := c.do(ctx, contractMetadataQuery, map[string]any{"id": contractID}, &data); err != nil {
		return ContractInfo{}, err
	}
	if len(data.NftContracts) == 0 {
		return ContractInfo{}, fmt.Errorf("%w: %s", ErrContractNotIndexed, contractID)
	}

	nc := data.NftContracts[0]
	info := ContractInfo{ContractID: nc.ID}
	if m := nc.Metadata; m != nil {
		if m.MintRoyaltyID != nil {
			info.RoyaltyBeneficiary = m.MintRoyaltyID.ID
		}
		info.RoyaltyAmount = m.MintRoyaltyAmount.Field
		info.PackagesScript = m.PackagesScript
		info.RenderScript = m.RenderScript
		info.StyleCSS = m.StyleCSS
		info.Parameters = m.Parameters
	}
	return info, nil
}
