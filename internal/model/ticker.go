package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Ticker is a symbol with the description printed under its heading.
type Ticker struct {
	Symbol      string
	Description string
}

// TickerTable is an ordered set of tickers. It decodes from a YAML or JSON
// mapping of symbol to description and keeps document order.
type TickerTable []Ticker

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TickerTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("tickers: expected mapping of symbol to description, got %s", kindName(value.Kind))
	}
	table := make(TickerTable, 0, len(value.Content)/2)
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if k.Value == "" {
			return fmt.Errorf("tickers: empty symbol at line %d", k.Line)
		}
		if seen[k.Value] {
			return fmt.Errorf("tickers: duplicate symbol %q at line %d", k.Value, k.Line)
		}
		seen[k.Value] = true
		table = append(table, Ticker{Symbol: k.Value, Description: v.Value})
	}
	*t = table
	return nil
}

// MarshalYAML implements yaml.Marshaler, emitting an ordered mapping.
func (t TickerTable) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, tk := range t {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: tk.Symbol},
			&yaml.Node{Kind: yaml.ScalarNode, Value: tk.Description},
		)
	}
	return node, nil
}

// Symbols returns the ticker symbols in order.
func (t TickerTable) Symbols() []string {
	out := make([]string, len(t))
	for i, tk := range t {
		out[i] = tk.Symbol
	}
	return out
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}

// DefaultTickers is the built-in twenty-ticker table.
func DefaultTickers() TickerTable {
	return TickerTable{
		{"AAPL", "Apple Inc. - Technology company known for iPhones and Macs."},
		{"MSFT", "Microsoft Corporation - Technology company known for Windows and Office."},
		{"GOOGL", "Alphabet Inc. - Parent company of Google."},
		{"AMZN", "Amazon.com, Inc. - E-commerce and cloud computing giant."},
		{"NVDA", "NVIDIA Corporation - Technology company specializing in GPUs."},
		{"TSLA", "Tesla, Inc. - Electric vehicle and clean energy company."},
		{"META", "Meta Platforms, Inc. - Social media company formerly known as Facebook."},
		{"BRK-B", "Berkshire Hathaway Inc. - Conglomerate holding company."},
		{"V", "Visa Inc. - Financial services company specializing in payment systems."},
		{"JNJ", "Johnson & Johnson - Healthcare and pharmaceutical company."},
		{"WMT", "Walmart Inc. - Retail corporation."},
		{"PG", "Procter & Gamble Co. - Consumer goods corporation."},
		{"JPM", "JPMorgan Chase & Co. - Financial services company."},
		{"MA", "Mastercard Incorporated - Financial services company."},
		{"DIS", "The Walt Disney Company - Entertainment and media conglomerate."},
		{"NFLX", "Netflix, Inc. - Streaming service provider."},
		{"PYPL", "PayPal Holdings, Inc. - Online payments company."},
		{"PFE", "Pfizer Inc. - Pharmaceutical corporation."},
		{"KO", "The Coca-Cola Company - Beverage corporation."},
		{"CSCO", "Cisco Systems, Inc. - Networking hardware and telecommunications equipment."},
	}
}
