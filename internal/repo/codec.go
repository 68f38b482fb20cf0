package repo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"taskbox/internal/domain"
)

// Binary task codec. The format is internal to the store; its only contract
// is that decode(encode(t)) == t. Layout: version byte, big-endian u32 id,
// uvarint-length-prefixed description, completion byte, priority
// discriminant byte, uvarint tag count followed by length-prefixed tags.
const codecVersion = 1

func encodeTask(t domain.Task) []byte {
	buf := make([]byte, 0, 16+len(t.Description))
	buf = append(buf, codecVersion)
	buf = binary.BigEndian.AppendUint32(buf, t.ID)
	buf = appendLenPrefixed(buf, t.Description)
	if t.IsCompleted {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, byte(t.Priority))
	buf = binary.AppendUvarint(buf, uint64(len(t.Tags)))
	for _, tag := range t.Tags {
		buf = appendLenPrefixed(buf, tag)
	}
	return buf
}

func decodeTask(data []byte) (domain.Task, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return domain.Task{}, fmt.Errorf("decoding task: %w", err)
	}
	if version != codecVersion {
		return domain.Task{}, fmt.Errorf("decoding task: unsupported version %d", version)
	}

	var t domain.Task
	var idBuf [4]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return domain.Task{}, fmt.Errorf("decoding task id: %w", err)
	}
	t.ID = binary.BigEndian.Uint32(idBuf[:])

	if t.Description, err = readLenPrefixed(r); err != nil {
		return domain.Task{}, fmt.Errorf("decoding task description: %w", err)
	}

	completed, err := r.ReadByte()
	if err != nil {
		return domain.Task{}, fmt.Errorf("decoding task completion: %w", err)
	}
	switch completed {
	case 0:
	case 1:
		t.IsCompleted = true
	default:
		return domain.Task{}, fmt.Errorf("decoding task completion: invalid byte %d", completed)
	}

	prio, err := r.ReadByte()
	if err != nil {
		return domain.Task{}, fmt.Errorf("decoding task priority: %w", err)
	}
	if prio > byte(domain.PriorityHigh) {
		return domain.Task{}, fmt.Errorf("decoding task priority: invalid discriminant %d", prio)
	}
	t.Priority = domain.Priority(prio)

	n, err := binary.ReadUvarint(r)
	if err != nil {
		return domain.Task{}, fmt.Errorf("decoding tag count: %w", err)
	}
	if n > uint64(r.Len()) {
		return domain.Task{}, fmt.Errorf("decoding tag count: %d exceeds remaining input", n)
	}
	for i := uint64(0); i < n; i++ {
		tag, err := readLenPrefixed(r)
		if err != nil {
			return domain.Task{}, fmt.Errorf("decoding tag %d: %w", i, err)
		}
		t.Tags = append(t.Tags, tag)
	}

	if r.Len() != 0 {
		return domain.Task{}, fmt.Errorf("decoding task: %d trailing bytes", r.Len())
	}
	return t, nil
}

func appendLenPrefixed(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readLenPrefixed(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > uint64(r.Len()) {
		return "", fmt.Errorf("length %d exceeds remaining input", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
