// Package idcodec translates store-assigned integer ids to short opaque
// strings and back, so internal row ids are never exposed directly.
package idcodec

import (
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/sqids/sqids-go"
)

// Codec is a reversible id <-> string encoding.
type Codec interface {
	Encode(id int64) (string, error)
	Decode(s string) (int64, error)
}

// SqidsCodec encodes ids with sqids using a deployment-specific alphabet.
type SqidsCodec struct {
	s *sqids.Sqids
}

// NewSqidsCodec builds a codec. An empty alphabet selects the sqids default.
func NewSqidsCodec(alphabet string, minLength uint8) (*SqidsCodec, error) {
	opts := sqids.Options{MinLength: minLength}
	if alphabet != "" {
		opts.Alphabet = alphabet
	}
	s, err := sqids.New(opts)
	if err != nil {
		return nil, fmt.Errorf("idcodec: %w", err)
	}
	return &SqidsCodec{s: s}, nil
}

func (c *SqidsCodec) Encode(id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("idcodec: negative id %d: %w", id, common.ErrInvalidArgument)
	}
	out, err := c.s.Encode([]uint64{uint64(id)})
	if err != nil {
		return "", fmt.Errorf("idcodec: %w", err)
	}
	return out, nil
}

// Decode accepts only the canonical encoding of a single id; any other
// string that sqids would map to the same number is rejected.
func (c *SqidsCodec) Decode(s string) (int64, error) {
	nums := c.s.Decode(s)
	if len(nums) != 1 || nums[0] > uint64(1<<63-1) {
		return 0, fmt.Errorf("idcodec: %q: %w", s, common.ErrInvalidArgument)
	}
	id := int64(nums[0])
	canonical, err := c.Encode(id)
	if err != nil || canonical != s {
		return 0, fmt.Errorf("idcodec: %q is not canonical: %w", s, common.ErrInvalidArgument)
	}
	return id, nil
}
