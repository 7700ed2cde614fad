package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"bridgeScope/internal/chains"
	"bridgeScope/internal/model"
)

const defaultTimeout = 15 * time.Second

// Client queries etherscan-family history APIs and normalizes their
// heterogeneous record shapes into model.RawChainRecord.
type Client struct {
	httpClient *http.Client
	apiKeys    map[string]string
	logger     *zap.Logger
}

// NewClient builds an explorer client with an explicit per-call timeout.
func NewClient(timeout time.Duration, apiKeys map[string]string, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKeys:    apiKeys,
		logger:     logger,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// normalTx is the txlist record shape. All fields arrive as strings.
type normalTx struct {
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Input        string `json:"input"`
	MethodID     string `json:"methodId"`
	FunctionName string `json:"functionName"`
	Value        string `json:"value"`
	TimeStamp    string `json:"timeStamp"`
	BlockNumber  string `json:"blockNumber"`
	GasUsed      string `json:"gasUsed"`
	GasPrice     string `json:"gasPrice"`
	IsError      string `json:"isError"`
}

// tokenTx is the tokentx (ERC20 transfer log) record shape.
type tokenTx struct {
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
	ContractAddress string `json:"contractAddress"`
	TimeStamp       string `json:"timeStamp"`
	BlockNumber     string `json:"blockNumber"`
	GasUsed         string `json:"gasUsed"`
	GasPrice        string `json:"gasPrice"`
}

// TxList fetches the address's normal transaction list, newest first.
func (c *Client) TxList(ctx context.Context, cfg chains.Config, address common.Address) ([]model.RawChainRecord, error) {
	query := c.baseQuery(cfg, address)
	query.Set("action", "txlist")

	raw, err := c.fetch(ctx, cfg, query)
	if err != nil {
		return nil, err
	}

	var entries []normalTx
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse txlist result: %w", err)
	}

	records := make([]model.RawChainRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, model.RawChainRecord{
			Hash:           entry.Hash,
			From:           entry.From,
			To:             entry.To,
			Input:          entry.Input,
			MethodSelector: strings.ToLower(entry.MethodID),
			FunctionName:   entry.FunctionName,
			Value:          entry.Value,
			Timestamp:      parseUint(entry.TimeStamp),
			BlockNumber:    parseUint(entry.BlockNumber),
			GasUsed:        parseUint(entry.GasUsed),
			GasPrice:       entry.GasPrice,
			Failed:         entry.IsError == "1",
		})
	}
	return records, nil
}

// TokenTxList fetches ERC20 transfer records of the chain's bridged token
// for the address, newest first.
func (c *Client) TokenTxList(ctx context.Context, cfg chains.Config, address common.Address) ([]model.RawChainRecord, error) {
	query := c.baseQuery(cfg, address)
	query.Set("action", "tokentx")
	query.Set("contractaddress", strings.ToLower(cfg.Token.Hex()))

	raw, err := c.fetch(ctx, cfg, query)
	if err != nil {
		return nil, err
	}

	var entries []tokenTx
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse tokentx result: %w", err)
	}

	records := make([]model.RawChainRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, model.RawChainRecord{
			Hash:            entry.Hash,
			From:            entry.From,
			To:              entry.To,
			Value:           entry.Value,
			TokenSymbol:     entry.TokenSymbol,
			TokenDecimals:   int(parseUint(entry.TokenDecimal)),
			TokenContract:   entry.ContractAddress,
			Timestamp:       parseUint(entry.TimeStamp),
			BlockNumber:     parseUint(entry.BlockNumber),
			GasUsed:         parseUint(entry.GasUsed),
			GasPrice:        entry.GasPrice,
			IsTokenTransfer: true,
		})
	}
	return records, nil
}

func (c *Client) baseQuery(cfg chains.Config, address common.Address) url.Values {
	query := url.Values{}
	query.Set("module", "account")
	query.Set("address", strings.ToLower(address.Hex()))
	query.Set("startblock", "0")
	query.Set("endblock", "99999999")
	query.Set("page", "1")
	query.Set("offset", strconv.Itoa(cfg.PageSize))
	query.Set("sort", "desc")
	if key := c.apiKeys[cfg.Name]; key != "" {
		query.Set("apikey", key)
	}
	return query
}

func (c *Client) fetch(ctx context.Context, cfg chains.Config, query url.Values) (json.RawMessage, error) {
	endpoint := cfg.ExplorerURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read explorer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer http %d: %s", resp.StatusCode, truncate(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse explorer envelope: %w", err)
	}

	// Some providers answer status "0" ("No transactions found" or a
	// transient error) while still carrying a usable result array. An
	// empty or absent result is simply an empty history, not an error.
	if len(env.Result) == 0 || string(env.Result) == "null" || string(env.Result) == `""` {
		if env.Status == "0" {
			c.logger.Debug("empty explorer result",
				zap.String("chain", cfg.Name),
				zap.String("message", env.Message),
			)
		}
		return json.RawMessage("[]"), nil
	}
	if env.Result[0] != '[' {
		// Non-array result carries a provider error string.
		return nil, fmt.Errorf("explorer error: %s: %s", env.Message, truncate(env.Result))
	}
	return env.Result, nil
}

func parseUint(input string) uint64 {
	value, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
