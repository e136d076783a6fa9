package snapshotter

import (
	"encoding/binary"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/metasrv/raft/internal/storage"
)

// A snapshot file's Data is framed as a 4-byte big-endian length prefix
// for the JSON-encoded envelope (membership list), followed by the
// envelope bytes, followed by the opaque application payload. Framing it
// this way keeps the envelope self-describing without guessing at where
// the application's own bytes begin.
func jsonMarshal(env envelope) ([]byte, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

func splitEnvelope(data []byte) (envelope, []byte, error) {
	if len(data) < 4 {
		return envelope{}, nil, errors.Wrap(storage.ErrDecode, "snapshotter: truncated envelope length")
	}
	n := binary.BigEndian.Uint32(data[:4])
	if uint64(4+n) > uint64(len(data)) {
		return envelope{}, nil, errors.Wrap(storage.ErrDecode, "snapshotter: truncated envelope body")
	}
	var env envelope
	if err := json.Unmarshal(data[4:4+n], &env); err != nil {
		return envelope{}, nil, errors.Wrap(storage.ErrDecode, err.Error())
	}
	return env, data[4+n:], nil
}
