package wire

import (
	"fmt"
	"io"
)

// Move packet, both directions:
//   byte 0: column
//   byte 1: row
// No header, length prefix, checksum or sequence number. One packet per turn.

const PacketSize = 2

type Packet [PacketSize]byte

func Encode(col, row uint8) Packet {
	return Packet{col, row}
}

// Decode trusts every byte value; range checks belong to the caller.
func Decode(p Packet) (col, row uint8) {
	return p[0], p[1]
}

// ReadPacket blocks until a full packet has been read from r.
func ReadPacket(r io.Reader) (Packet, error) {
	var p Packet
	if _, err := io.ReadFull(r, p[:]); err != nil {
		return Packet{}, err
	}
	return p, nil
}

func WritePacket(w io.Writer, p Packet) error {
	n, err := w.Write(p[:])
	if err != nil {
		return err
	}
	if n != PacketSize {
		return fmt.Errorf("short write: %d of %d bytes", n, PacketSize)
	}
	return nil
}
