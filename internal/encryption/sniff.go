package encryption

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age/armor"
)

// Kind classifies the first bytes of a stream.
type Kind int

const (
	KindPlain Kind = iota
	KindAge
	KindArmored
	KindTest
)

var ageMagic = []byte("age-encryption.org/")

// Sniff peeks at the start of r and reports how it is encoded. The returned
// reader yields the full stream, including the peeked bytes.
func Sniff(r io.Reader) (io.Reader, Kind, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(armor.Header))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, KindPlain, fmt.Errorf("reading input header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, []byte(armor.Header)):
		return br, KindArmored, nil
	case bytes.HasPrefix(head, ageMagic):
		return br, KindAge, nil
	case bytes.HasPrefix(head, testHeader):
		return br, KindTest, nil
	default:
		return br, KindPlain, nil
	}
}
