package conv

// Coordinate formatting for payloads and display strings. Degrees are
// carried as float32 from the NMEA parser; five decimal places (~1.1 m)
// is as much precision as a consumer-grade fix carries.

const coordScale = 100000 // 1e5, five decimal places

// AppendCoord appends deg formatted as "[-]ddd.ddddd" to dst.
// Integer math only; safe on MCU builds without float formatting support.
func AppendCoord(dst []byte, deg float32) []byte {
	micro := int64(deg * coordScale)
	if micro < 0 {
		dst = append(dst, '-')
		micro = -micro
	}
	dst = AppendInt(dst, micro/coordScale)
	dst = append(dst, '.')
	frac := micro % coordScale
	// Zero-pad the fraction to five digits.
	for scale := int64(coordScale / 10); scale > 0 && frac < scale; scale /= 10 {
		dst = append(dst, '0')
	}
	if frac > 0 {
		dst = AppendInt(dst, frac)
	}
	return dst
}

// CoordString is the allocating convenience form.
func CoordString(deg float32) string {
	return string(AppendCoord(nil, deg))
}
