package protocol

import (
	"encoding/gob"
	"io"
	"sync"
)

// Codec reads and writes Message values over one stream. Reads are owned
// by a single goroutine; writes may come from any goroutine and are
// serialized with a mutex so broadcast frames never interleave.
type Codec struct {
	dec *gob.Decoder

	wmu sync.Mutex
	enc *gob.Encoder
}

// NewCodec wraps rw in a gob message codec.
func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		dec: gob.NewDecoder(rw),
		enc: gob.NewEncoder(rw),
	}
}

// Read blocks until the next inbound message arrives or the stream fails.
func (c *Codec) Read() (*Message, error) {
	var msg Message
	if err := c.dec.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Write sends msg.
func (c *Codec) Write(msg *Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.enc.Encode(msg)
}
