// Package token provides the tokenizer used for section windows and
// completion budget accounting.
package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// EncodingName is the BPE encoding shared by the chat and embedding models.
const EncodingName = "cl100k_base"

// Codec converts between text and the token IDs the model accounts in.
type Codec interface {
	Encode(text string) []int
	Decode(ids []int) string
	Count(text string) int
}

// CL100K is the cl100k_base implementation of Codec.
type CL100K struct {
	enc *tiktoken.Tiktoken
}

// NewCL100K loads the cl100k_base encoding tables.
func NewCL100K() (*CL100K, error) {
	enc, err := tiktoken.GetEncoding(EncodingName)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", EncodingName, err)
	}
	return &CL100K{enc: enc}, nil
}

func (c *CL100K) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *CL100K) Decode(ids []int) string {
	return c.enc.Decode(ids)
}

func (c *CL100K) Count(text string) int {
	return len(c.Encode(text))
}
