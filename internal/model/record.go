package model

// RawChainRecord is the provider-agnostic shape of one explorer entry.
// Provider-specific parsing happens at the explorer client boundary; by the
// time classification runs, every record looks like this.
type RawChainRecord struct {
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Input           string `json:"input,omitempty"`
	MethodSelector  string `json:"method_selector,omitempty"`
	FunctionName    string `json:"function_name,omitempty"`
	Value           string `json:"value"`
	TokenSymbol     string `json:"token_symbol,omitempty"`
	TokenDecimals   int    `json:"token_decimals,omitempty"`
	TokenContract   string `json:"token_contract,omitempty"`
	Timestamp       uint64 `json:"timestamp"`
	BlockNumber     uint64 `json:"block_number"`
	GasUsed         uint64 `json:"gas_used"`
	GasPrice        string `json:"gas_price"`
	Failed          bool   `json:"failed"`
	IsTokenTransfer bool   `json:"is_token_transfer"`
}
