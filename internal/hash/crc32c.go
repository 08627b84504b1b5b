package hash

import "hash/crc32"

// crc32cTable is pre-computed for the CRC32-Castagnoli polynomial so that
// checksum calls never pay for MakeTable.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
// Hardware accelerated where the CPU supports it (SSE4.2, ARM CRC).
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// UpdateCRC32C extends an existing CRC32C checksum with data. Blit encoding
// uses this to checksum header, schema, and tape sections incrementally.
func UpdateCRC32C(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, crc32cTable, data)
}
