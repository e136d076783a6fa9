package logstore

import "strconv"

// Key schema inside the meta column family, spec.md §4.B.
const (
	keyFirstIndex    = "metasrv_first_index"
	keyLastIndex     = "metasrv_last_index"
	keyHardState     = "metasrv_hard_state"
	keyConfState     = "metasrv_conf_state"
	keySnapshot      = "metasrv_snapshot"
	keyUncommitIndex = "metasrv_uncommit_index"
	entryKeyPrefix   = "metasrv_entry_"
)

// entryKey renders index as a decimal, unpadded suffix, per spec. Entries
// are always looked up by their exact index rather than via a prefix scan,
// so the lack of lexicographic ordering across digit counts (entry_9 sorts
// after entry_10) is not load-bearing anywhere in this package.
func entryKey(index uint64) []byte {
	return []byte(entryKeyPrefix + strconv.FormatUint(index, 10))
}
