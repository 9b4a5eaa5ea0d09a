package protocol

import "hash/crc32"

// CRC-16 with the reflected 0xA001 polynomial, init 0xFFFF (the MODBUS
// variant). The short per-frame checksums use this; the config frame
// uses CRC-32 below.
var crc16Table = makeCRC16Table()

func makeCRC16Table() [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i)
		for bit := 0; bit < 8; bit++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRC16 computes the checksum over data.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = (crc >> 8) ^ crc16Table[byte(crc)^b]
	}
	return crc
}

// CRC32 computes the IEEE checksum over data.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
