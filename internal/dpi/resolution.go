package dpi

import (
	"bytes"
	"encoding/binary"
	"math"
)

// resolution extracts horizontal and vertical density in dots per inch
// from image metadata, defaulting both axes to 72 when absent. PNG pHYs
// chunks and JPEG JFIF density headers are recognized; other formats
// rarely carry density metadata and use the default.
func resolution(data []byte) (x, y int) {
	if px, py, ok := pngDensity(data); ok {
		return px, py
	}
	if jx, jy, ok := jpegDensity(data); ok {
		return jx, jy
	}
	return defaultDensity, defaultDensity
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// pngDensity reads the pHYs chunk. Unit 1 is pixels per meter; unit 0
// declares only an aspect ratio and carries no absolute density.
func pngDensity(data []byte) (x, y int, ok bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, 0, false
	}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		chunkType := string(data[pos+4 : pos+8])
		dataStart := pos + 8
		if length < 0 || dataStart+length+4 > len(data) {
			return 0, 0, false
		}
		if chunkType == "pHYs" && length >= 9 {
			chunk := data[dataStart : dataStart+9]
			ppuX := binary.BigEndian.Uint32(chunk[0:4])
			ppuY := binary.BigEndian.Uint32(chunk[4:8])
			if chunk[8] == 1 { // pixels per meter
				return metersToInches(ppuX), metersToInches(ppuY), true
			}
			return 0, 0, false
		}
		if chunkType == "IDAT" || chunkType == "IEND" {
			return 0, 0, false
		}
		pos = dataStart + length + 4 // skip data and CRC
	}
	return 0, 0, false
}

func metersToInches(perMeter uint32) int {
	return int(math.Round(float64(perMeter) * 0.0254))
}

// jpegDensity reads the JFIF APP0 density fields. Unit 1 is dots per
// inch, unit 2 dots per centimeter; unit 0 is an aspect ratio only.
func jpegDensity(data []byte) (x, y int, ok bool) {
	if len(data) < 4 || data[0] != 0xff || data[1] != 0xd8 {
		return 0, 0, false
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xff {
			return 0, 0, false
		}
		marker := data[pos+1]
		if marker == 0xd8 || (marker >= 0xd0 && marker <= 0xd7) {
			pos += 2
			continue
		}
		if marker == 0xda || marker == 0xd9 { // start of scan / end of image
			return 0, 0, false
		}
		segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if segLen < 2 || pos+2+segLen > len(data) {
			return 0, 0, false
		}
		if marker == 0xe0 {
			seg := data[pos+4 : pos+2+segLen]
			if len(seg) >= 12 && bytes.HasPrefix(seg, []byte("JFIF\x00")) {
				unit := seg[7]
				dx := int(binary.BigEndian.Uint16(seg[8:10]))
				dy := int(binary.BigEndian.Uint16(seg[10:12]))
				switch unit {
				case 1:
					return dx, dy, true
				case 2:
					return int(math.Round(float64(dx) * 2.54)), int(math.Round(float64(dy) * 2.54)), true
				}
				return 0, 0, false
			}
		}
		pos += 2 + segLen
	}
	return 0, 0, false
}
