package record

import (
	"unicode/utf8"

	"github.com/joshuapare/cfskit/cfs"
)

// Strings stores one length-prefixed UTF-8 string per slot.
type Strings struct{}

var _ Serializer[string] = Strings{}

func (Strings) CanSerialize(v string) bool { return utf8.ValidString(v) }

func (Strings) Serialize(v string, h *cfs.Handle) error { return h.WriteString(v) }

func (Strings) CanDeserialize(h *cfs.Handle) bool {
	_, err := h.ReadString()
	return err == nil
}

func (Strings) Deserialize(h *cfs.Handle) (string, error) { return h.ReadString() }

// Blobs stores one int32 length-prefixed byte slice per slot.
type Blobs struct {
	// MaxLen rejects larger blobs. Zero means no limit.
	MaxLen int
}

var _ Serializer[[]byte] = Blobs{}

func (b Blobs) CanSerialize(v []byte) bool {
	return b.MaxLen == 0 || len(v) <= b.MaxLen
}

func (Blobs) Serialize(v []byte, h *cfs.Handle) error {
	if err := h.WriteInt32(int32(len(v))); err != nil {
		return err
	}
	return h.WriteBytes(v)
}

func (b Blobs) CanDeserialize(h *cfs.Handle) bool {
	n, err := h.ReadInt32()
	if err != nil || n < 0 {
		return false
	}
	if b.MaxLen > 0 && int(n) > b.MaxLen {
		return false
	}
	return int64(n) <= h.Remaining()
}

func (Blobs) Deserialize(h *cfs.Handle) ([]byte, error) {
	n, err := h.ReadInt32()
	if err != nil {
		return nil, err
	}
	return h.ReadBytes(int(n))
}
