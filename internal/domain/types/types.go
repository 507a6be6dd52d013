// Package types contains common types shared by the service and its adapters
package types

// Option is one selectable value of a dashboard control
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists every selectable value for the dashboard controls
type Options struct {
	Locale       string   `json:"locale"`
	Pages        []Option `json:"pages"`
	Universities []string `json:"universities"`
	Countries    []string `json:"countries"`
	Years        []int    `json:"years"`
	Indicators   []Option `json:"indicators"`
	Pairs        []Option `json:"pairs"`
	MaxCompare   int      `json:"max_compare_universities"`
}

// Labels returns the option labels in order
func Labels(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}

// Values returns the option values in order
func Values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
