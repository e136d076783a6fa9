package kv

import "github.com/linxGnu/grocksdb"

// Column families, matching the Rust original's DB_COLUMN_FAMILY_META /
// _CLUSTER / _MQTT (storage/mod.rs): one for consensus bookkeeping
// (component B's key schema lives here), one for cluster/membership
// records, one for the MQTT broker's own application data.
const (
	CFDefault = "default"
	CFMeta    = "meta"
	CFCluster = "cluster"
	CFMQTT    = "mqtt"
)

// columnFamilies lists every family Open ensures exists, in the order
// grocksdb.OpenDbColumnFamilies expects them back.
func columnFamilies() []string {
	return []string{CFDefault, CFMeta, CFCluster, CFMQTT}
}

// dbOptions mirrors open_db_opts in the Rust original almost option for
// option: fsync disabled in favor of the periodic bytes-per-sync flush,
// a large write buffer merged from several memtables before flush,
// universal compaction with auto-compaction left to the driver's own
// compaction calls, and a fixed 10-byte prefix extractor (the log store's
// keys are ASCII strings; all entry keys share the 10-byte prefix
// "metasrv_en") backed by a memtable bloom filter.
func dbOptions(maxOpenFiles int) *grocksdb.Options {
	opts := grocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	opts.SetCreateIfMissingColumnFamilies(true)
	opts.SetMaxOpenFiles(maxOpenFiles)
	opts.SetUseFsync(false)
	opts.SetBytesPerSync(8 << 20)
	opts.OptimizeForPointLookup(1024)
	opts.SetTableCacheNumShardBits(6)
	opts.SetMaxWriteBufferNumber(32)
	opts.SetWriteBufferSize(512 << 20)
	opts.SetTargetFileSizeBase(1 << 30)
	opts.SetMinWriteBufferNumberToMerge(4)
	opts.SetLevel0StopWritesTrigger(2000)
	opts.SetLevel0SlowdownWritesTrigger(0)
	opts.SetCompactionStyle(grocksdb.UniversalCompactionStyle)
	opts.SetDisableAutoCompactions(true)

	bbto := grocksdb.NewDefaultBlockBasedTableOptions()
	bbto.SetBlockCache(grocksdb.NewLRUCache(256 << 20))
	bbto.SetFilterPolicy(grocksdb.NewBloomFilter(10))
	opts.SetBlockBasedTableFactory(bbto)

	opts.SetPrefixExtractor(grocksdb.NewFixedPrefixTransform(10))
	opts.SetMemtablePrefixBloomSizeRatio(0.2)

	return opts
}

func cfOptions(maxOpenFiles int) *grocksdb.Options {
	return dbOptions(maxOpenFiles)
}
