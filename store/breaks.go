package store

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/raminsharifi/time-logging/internal/models"
)

// Field numbers of the protobuf messages the breaks blob is encoded as:
//
//	message Breaks { repeated Break breaks = 1; }
//	message Break  { int64 start_ts = 1; int64 end_ts = 2; }
//
// A closed break always carries end_ts and an open break never does, so the
// presence of the field marks closure.
const (
	fieldBreaks  protowire.Number = 1
	fieldStartTS protowire.Number = 1
	fieldEndTS   protowire.Number = 2
)

// EncodeBreaks serialises a breaks list into its compact binary form.
func EncodeBreaks(breaks []models.Break) []byte {
	out := []byte{}

	for i := range breaks {
		out = protowire.AppendTag(out, fieldBreaks, protowire.BytesType)
		out = protowire.AppendBytes(out, encodeBreak(breaks[i]))
	}

	return out
}

func encodeBreak(b models.Break) []byte {
	var out []byte

	out = protowire.AppendTag(out, fieldStartTS, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(b.Start))

	if b.End != nil {
		out = protowire.AppendTag(out, fieldEndTS, protowire.VarintType)
		out = protowire.AppendVarint(out, uint64(*b.End))
	}

	return out
}

// DecodeBreaks parses a blob produced by EncodeBreaks. Unknown fields are
// skipped.
func DecodeBreaks(data []byte) ([]models.Break, error) {
	var breaks []models.Break

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errCorruptBreaks.Wrap(protowire.ParseError(n))
		}

		data = data[n:]

		if num != fieldBreaks || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errCorruptBreaks.Wrap(protowire.ParseError(n))
			}

			data = data[n:]

			continue
		}

		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, errCorruptBreaks.Wrap(protowire.ParseError(n))
		}

		data = data[n:]

		b, err := decodeBreak(msg)
		if err != nil {
			return nil, err
		}

		breaks = append(breaks, b)
	}

	return breaks, nil
}

func decodeBreak(data []byte) (models.Break, error) {
	var b models.Break

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return b, errCorruptBreaks.Wrap(protowire.ParseError(n))
		}

		data = data[n:]

		if typ == protowire.VarintType &&
			(num == fieldStartTS || num == fieldEndTS) {
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return b, errCorruptBreaks.Wrap(protowire.ParseError(n))
			}

			data = data[n:]

			if num == fieldStartTS {
				b.Start = int64(v)
			} else {
				b.End = models.Int64(int64(v))
			}

			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return b, errCorruptBreaks.Wrap(protowire.ParseError(n))
		}

		data = data[n:]
	}

	return b, nil
}
