package wire

import "encoding/binary"

func decodeCipherSuiteIDs(buf []byte) ([]uint16, int, error) {
	if len(buf) < 2 {
		return nil, 0, errBufferTooSmall
	}
	listLength := int(binary.BigEndian.Uint16(buf[0:]))
	if listLength&1 == 1 || len(buf) < listLength+2 {
		return nil, 0, errBufferTooSmall
	}

	count := listLength >> 1
	ids := make([]uint16, count)
	for i := 0; i < count; i++ {
		ids[i] = binary.BigEndian.Uint16(buf[(i<<1)+2:])
	}
	return ids, listLength + 2, nil
}

func encodeCipherSuiteIDs(ids []uint16) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(len(ids)<<1))
	for _, id := range ids {
		out = binary.BigEndian.AppendUint16(out, id)
	}
	return out
}
