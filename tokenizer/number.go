package tokenizer

// NumberValue interprets the text of a NUMBER token. Accumulation uses
// 32-bit arithmetic (value*base + digit) and wraps around silently on
// overflow; there is no overflow diagnostic anywhere in the pipeline.
func NumberValue(text string) int32 {
	var value int32

	if len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		for i := 2; i < len(text); i++ {
			value = value*16 + hexDigitValue(text[i])
		}
		return value
	}
	if len(text) > 0 && text[0] == '0' {
		for i := 1; i < len(text); i++ {
			value = value*8 + int32(text[i]-'0')
		}
		return value
	}
	for i := 0; i < len(text); i++ {
		value = value*10 + int32(text[i]-'0')
	}
	return value
}

func hexDigitValue(c byte) int32 {
	switch {
	case c >= '0' && c <= '9':
		return int32(c - '0')
	case c >= 'a' && c <= 'f':
		return int32(c-'a') + 10
	default:
		return int32(c-'A') + 10
	}
}
