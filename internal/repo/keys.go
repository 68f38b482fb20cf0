package repo

import "encoding/binary"

// Keyspace prefixes keep the consumers of the shared kv medium disjoint.
const (
	keyspaceTask    = 't'
	keyspaceCounter = 'c'
	keyspaceUser    = 'u'
)

// taskPrefix returns the key prefix shared by every task of one owner:
// keyspace byte, big-endian owner length, owner bytes. The length prefix
// keeps partitions disjoint even when one owner string is a prefix of
// another ("bob" vs "bobby").
func taskPrefix(owner string) []byte {
	b := make([]byte, 0, 5+len(owner))
	b = append(b, keyspaceTask)
	b = binary.BigEndian.AppendUint32(b, uint32(len(owner)))
	return append(b, owner...)
}

// taskKey returns the full composite key (owner, id). Big-endian ids sort
// ascending under bytewise key order.
func taskKey(owner string, id uint32) []byte {
	return binary.BigEndian.AppendUint32(taskPrefix(owner), id)
}

func userKey(username string) []byte {
	b := make([]byte, 0, 1+len(username))
	b = append(b, keyspaceUser)
	return append(b, username...)
}
