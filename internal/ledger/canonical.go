package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

const hexDigits = "0123456789abcdef"

// Hash returns the lowercase hex SHA-256 of the block's canonical encoding.
// The stored Hash field is not part of the digest.
func Hash(b Block) string {
	sum := sha256.Sum256(Canonical(b))
	return hex.EncodeToString(sum[:])
}

// Canonical encodes every block field except the hash as compact JSON with
// keys in lexicographic order, ASCII-only strings and floats in shortest
// round-trip form. The output matches json.dumps(sort_keys=True,
// separators=(',', ':')) so chains are portable across node implementations.
func Canonical(b Block) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"alerts":[`)
	for i, a := range b.Alerts {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeAlert(&buf, a)
	}
	buf.WriteString(`],"index":`)
	buf.WriteString(strconv.Itoa(b.Index))
	buf.WriteString(`,"previous_hash":`)
	writeString(&buf, b.PreviousHash)
	buf.WriteString(`,"sender":`)
	writeString(&buf, b.Sender)
	buf.WriteString(`,"timestamp":`)
	writeFloat(&buf, b.Timestamp)
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeAlert(buf *bytes.Buffer, a Alert) {
	buf.WriteString(`{"confidence":`)
	writeFloat(buf, a.Confidence)
	buf.WriteString(`,"sender":`)
	writeString(buf, a.Sender)
	buf.WriteString(`,"timestamp":`)
	writeFloat(buf, a.Timestamp)
	buf.WriteString(`,"type":`)
	writeString(buf, a.Type)
	buf.WriteByte('}')
}

// writeFloat emits repr-style floats: fixed notation with at least one
// fractional digit for decimal exponents in [-4, 16), scientific otherwise.
func writeFloat(buf *bytes.Buffer, f float64) {
	switch {
	case math.IsNaN(f):
		buf.WriteString("NaN")
		return
	case math.IsInf(f, 1):
		buf.WriteString("Infinity")
		return
	case math.IsInf(f, -1):
		buf.WriteString("-Infinity")
		return
	case f == 0:
		if math.Signbit(f) {
			buf.WriteString("-0.0")
		} else {
			buf.WriteString("0.0")
		}
		return
	}

	exp := decimalExponent(f)
	if exp < -4 || exp >= 16 {
		buf.WriteString(strconv.FormatFloat(f, 'e', -1, 64))
		return
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	buf.WriteString(s)
	if !strings.ContainsRune(s, '.') {
		buf.WriteString(".0")
	}
}

// decimalExponent is the exponent of the shortest round-trip scientific form.
func decimalExponent(f float64) int {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	idx := strings.LastIndexByte(s, 'e')
	exp, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return 0
	}
	return exp
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r >= 0x20 && r <= 0x7e:
			buf.WriteByte(byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			writeUnicodeEscape(buf, hi)
			writeUnicodeEscape(buf, lo)
		default:
			writeUnicodeEscape(buf, r)
		}
	}
	buf.WriteByte('"')
}

func writeUnicodeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hexDigits[(r>>12)&0xf])
	buf.WriteByte(hexDigits[(r>>8)&0xf])
	buf.WriteByte(hexDigits[(r>>4)&0xf])
	buf.WriteByte(hexDigits[r&0xf])
}
