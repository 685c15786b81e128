// Package tokens estimates prompt sizes with tiktoken encodings.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Counter counts tokens for one model's encoding.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter builds a counter for model, falling back to cl100k_base when
// the model has no registered encoding.
func NewCounter(model string) *Counter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return &Counter{}
		}
	}
	return &Counter{enc: enc}
}

// Count returns the token length of text. Without an encoding it degrades
// to a four-bytes-per-token estimate.
func (c *Counter) Count(text string) int {
	if c == nil || c.enc == nil {
		return (len(text) + 3) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}
