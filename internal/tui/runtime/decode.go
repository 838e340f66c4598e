package runtime

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// escapeSequences maps the CSI/SS3 sequences a session reacts to.
var escapeSequences = map[string]tea.KeyType{
	"\x1b[A":   tea.KeyUp,
	"\x1b[B":   tea.KeyDown,
	"\x1b[C":   tea.KeyRight,
	"\x1b[D":   tea.KeyLeft,
	"\x1bOA":   tea.KeyUp,
	"\x1bOB":   tea.KeyDown,
	"\x1bOC":   tea.KeyRight,
	"\x1bOD":   tea.KeyLeft,
	"\x1b[H":   tea.KeyHome,
	"\x1b[F":   tea.KeyEnd,
	"\x1bOH":   tea.KeyHome,
	"\x1bOF":   tea.KeyEnd,
	"\x1b[1~":  tea.KeyHome,
	"\x1b[4~":  tea.KeyEnd,
	"\x1b[3~":  tea.KeyDelete,
	"\x1b[5~":  tea.KeyPgUp,
	"\x1b[6~":  tea.KeyPgDown,
	"\x1bOP":   tea.KeyF1,
	"\x1b[11~": tea.KeyF1,
	"\x1b[Z":   tea.KeyShiftTab,
}

// decodeKeys turns one chunk of raw input into key events. Unknown escape
// sequences are skipped.
func decodeKeys(b []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for len(b) > 0 {
		k, n := decodeKey(b)
		b = b[n:]
		if k != nil {
			keys = append(keys, *k)
		}
	}
	return keys
}

func decodeKey(b []byte) (*tea.KeyMsg, int) {
	if b[0] == 0x1b {
		return decodeEscape(b)
	}

	// C0 controls and DEL share their KeyType values with the byte
	if b[0] < 0x20 || b[0] == 0x7f {
		return &tea.KeyMsg{Type: tea.KeyType(b[0])}, 1
	}

	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return nil, 1
	}
	if r == ' ' {
		return &tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, n
	}
	return &tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, n
}

func decodeEscape(b []byte) (*tea.KeyMsg, int) {
	if len(b) == 1 {
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1
	}

	if b[1] == '[' || b[1] == 'O' {
		end := sequenceEnd(b)
		if kt, ok := escapeSequences[string(b[:end])]; ok {
			return &tea.KeyMsg{Type: kt}, end
		}
		return nil, end
	}

	// ESC followed by a key is that key with alt held
	k, n := decodeKey(b[1:])
	if k == nil {
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1
	}
	k.Alt = true
	return k, n + 1
}

// sequenceEnd returns the length of the CSI or SS3 sequence at the start of
// b.
func sequenceEnd(b []byte) int {
	if b[1] == 'O' {
		return min(3, len(b))
	}
	// CSI: parameters and intermediates, then one final byte in 0x40-0x7e
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return i + 1
		}
	}
	return len(b)
}
