package tokenizer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxBinaryExponent bounds the p-exponent of hex float literals so that
// decoding cannot allocate absurdly large integers.
const maxBinaryExponent = 1 << 20

// readNumber dispatches on the literal prefix: 0x/0X hexadecimal, 0b/0B
// binary, anything else decimal. Longest match wins; an identifier
// character directly after the digits makes the literal malformed.
func (t *tokenizer) readNumber() (Token, error) {
	if t.current == '0' && (t.peekChar() == 'x' || t.peekChar() == 'X') {
		return t.readHexNumber()
	}
	if t.current == '0' && (t.peekChar() == 'b' || t.peekChar() == 'B') {
		return t.readBinaryNumber()
	}
	return t.readDecimalNumber()
}

// readDecimalNumber scans integer and float literals like 42, 3.14, .5 and
// 1e-10. A dot only starts the fraction when a digit follows it, so 1..2
// lexes as 1 .. 2.
func (t *tokenizer) readDecimalNumber() (Token, error) {
	var builder strings.Builder

	start := t.pos()
	isInteger := true

	for isDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == '.' && isDigit(t.peekChar()) {
		isInteger = false
		builder.WriteRune(t.current)
		t.readChar()
		for isDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	if t.current == 'e' || t.current == 'E' {
		isInteger = false
		builder.WriteRune(t.current)
		t.readChar()
		if t.current == '+' || t.current == '-' {
			builder.WriteRune(t.current)
			t.readChar()
		}
		if !isDigit(t.current) {
			return Token{}, t.lexErr(ErrInvalidNumber, start, "exponent needs digits")
		}
		for isDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	if isIdentStart(t.current) {
		return Token{}, t.lexErr(ErrInvalidNumber, start, "trailing "+quoteRune(t.current))
	}

	raw := builder.String()
	normalized := raw
	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}

	num, err := decimal.NewFromString(normalized)
	if err != nil {
		return Token{}, t.lexErr(ErrInvalidNumber, start, raw)
	}

	token := t.tokenAt(NUMBER, raw, start)
	token.Num = num
	token.IsInteger = isInteger

	return token, nil
}

// readHexNumber scans 0x literals, including hex floats with a binary
// exponent such as 0x1.8p3. Exponent digits are mandatory once the p
// marker appears, and a bare 0x prefix is an error.
func (t *tokenizer) readHexNumber() (Token, error) {
	var builder strings.Builder

	start := t.pos()
	builder.WriteRune(t.current)
	t.readChar()
	builder.WriteRune(t.current)
	t.readChar()

	var digits strings.Builder

	for isHexDigit(t.current) {
		digits.WriteRune(t.current)
		builder.WriteRune(t.current)
		t.readChar()
	}

	fracLen := 0
	if t.current == '.' && isHexDigit(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()
		for isHexDigit(t.current) {
			digits.WriteRune(t.current)
			builder.WriteRune(t.current)
			t.readChar()
			fracLen++
		}
	}

	if digits.Len() == 0 {
		return Token{}, t.lexErr(ErrInvalidNumber, start, "hex literal needs digits")
	}

	exponent := 0
	hasExponent := false
	if t.current == 'p' || t.current == 'P' {
		hasExponent = true
		builder.WriteRune(t.current)
		t.readChar()

		negative := false
		if t.current == '+' || t.current == '-' {
			negative = t.current == '-'
			builder.WriteRune(t.current)
			t.readChar()
		}
		if !isDigit(t.current) {
			return Token{}, t.lexErr(ErrInvalidNumber, start, "exponent needs digits")
		}

		var expDigits strings.Builder
		for isDigit(t.current) {
			expDigits.WriteRune(t.current)
			builder.WriteRune(t.current)
			t.readChar()
		}

		value, err := strconv.Atoi(expDigits.String())
		if err != nil || value > maxBinaryExponent {
			return Token{}, t.lexErr(ErrInvalidNumber, start, "exponent out of range")
		}
		exponent = value
		if negative {
			exponent = -exponent
		}
	}

	if isIdentStart(t.current) {
		return Token{}, t.lexErr(ErrInvalidNumber, start, "trailing "+quoteRune(t.current))
	}

	mantissa, ok := new(big.Int).SetString(digits.String(), 16)
	if !ok {
		return Token{}, t.lexErr(ErrInvalidNumber, start, builder.String())
	}

	token := t.tokenAt(NUMBER, builder.String(), start)
	token.Num = scaleByPow2(mantissa, exponent-4*fracLen)
	token.IsInteger = fracLen == 0 && !hasExponent

	return token, nil
}

// readBinaryNumber scans 0b literals. Bits come in runs: the leading run is
// free-form, and every underscore must be followed by exactly four bits, so
// 0b1010_0101 and 0b10100101 are fine while 0b1_01 is not. A fractional
// part after a dot follows the same grouping rules.
func (t *tokenizer) readBinaryNumber() (Token, error) {
	var builder strings.Builder

	start := t.pos()
	builder.WriteRune(t.current)
	t.readChar()
	builder.WriteRune(t.current)
	t.readChar()

	intBits, err := t.readBinaryGroups(&builder, start)
	if err != nil {
		return Token{}, err
	}

	fracBits := ""
	if t.current == '.' && (t.peekChar() == '0' || t.peekChar() == '1') {
		builder.WriteRune(t.current)
		t.readChar()
		fracBits, err = t.readBinaryGroups(&builder, start)
		if err != nil {
			return Token{}, err
		}
	}

	if isIdentStart(t.current) || isDigit(t.current) {
		return Token{}, t.lexErr(ErrInvalidNumber, start, "trailing "+quoteRune(t.current))
	}

	mantissa, ok := new(big.Int).SetString(intBits+fracBits, 2)
	if !ok {
		return Token{}, t.lexErr(ErrInvalidNumber, start, builder.String())
	}

	token := t.tokenAt(NUMBER, builder.String(), start)
	token.Num = scaleByPow2(mantissa, -len(fracBits))
	token.IsInteger = fracBits == ""

	return token, nil
}

// readBinaryGroups consumes a run of bits and underscores and validates the
// grouping: the chunk before the first underscore is any length of at least
// one bit, every later chunk is exactly four bits. It returns the bits with
// underscores stripped.
func (t *tokenizer) readBinaryGroups(builder *strings.Builder, start Position) (string, error) {
	var raw strings.Builder

	for t.current == '0' || t.current == '1' || t.current == '_' {
		raw.WriteRune(t.current)
		builder.WriteRune(t.current)
		t.readChar()
	}

	s := raw.String()
	if s == "" {
		return "", t.lexErr(ErrInvalidNumber, start, "binary literal needs digits")
	}

	chunks := strings.Split(s, "_")
	if chunks[0] == "" {
		return "", t.lexErr(ErrInvalidNumber, start, "misplaced '_'")
	}
	for _, chunk := range chunks[1:] {
		if len(chunk) != 4 {
			return "", t.lexErr(ErrInvalidNumber, start, "'_' must be followed by four bits")
		}
	}

	return strings.ReplaceAll(s, "_", ""), nil
}

// scaleByPow2 returns mantissa * 2^exp as an exact decimal value. Negative
// exponents multiply by 5^|exp| and shift the decimal point instead of
// dividing, so no precision is lost.
func scaleByPow2(mantissa *big.Int, exp int) decimal.Decimal {
	if exp >= 0 {
		return decimal.NewFromBigInt(new(big.Int).Lsh(mantissa, uint(exp)), 0)
	}

	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)

	return decimal.NewFromBigInt(new(big.Int).Mul(mantissa, five), int32(exp))
}
