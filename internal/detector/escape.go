package detector

const esc = 0x1B

// iso2022JPProber recognizes the designator sequences of ISO-2022-JP in a
// 7-bit stream. Any ESC not followed by a known designator rules the
// encoding out; ANSI terminal sequences therefore never qualify.
type iso2022JPProber struct {
	seq     [3]byte
	n       int
	matched int64
	broken  bool
}

var iso2022JPDesignators = [][]byte{
	{esc, '$', '@'},
	{esc, '$', 'B'},
	{esc, '(', 'B'},
	{esc, '(', 'J'},
	{esc, '(', 'I'},
}

func (p *iso2022JPProber) step(b byte) {
	if p.broken {
		return
	}
	if p.n == 0 {
		if b == esc {
			p.seq[0] = b
			p.n = 1
		}
		return
	}
	p.seq[p.n] = b
	p.n++
	if !p.prefixOK() {
		p.broken = true
		return
	}
	if p.n == len(p.seq) {
		p.matched++
		p.n = 0
	}
}

func (p *iso2022JPProber) prefixOK() bool {
	for _, d := range iso2022JPDesignators {
		ok := true
		for i := 0; i < p.n; i++ {
			if d[i] != p.seq[i] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (p *iso2022JPProber) finish() {
	if p.n != 0 {
		p.broken = true
	}
}

func (p *iso2022JPProber) detected() bool {
	return !p.broken && p.matched > 0
}

// hzProber recognizes RFC 1843 HZ text: "~{" switches to GB mode, "~}"
// switches back, "~~" and "~\n" are the only other tilde escapes in ASCII
// mode. GB mode carries pairs of bytes in 0x21-0x7E.
type hzProber struct {
	gbMode bool
	tilde  bool
	odd    bool
	closed int64
	broken bool
}

func (p *hzProber) step(b byte) {
	if p.broken {
		return
	}
	if p.tilde {
		p.tilde = false
		switch {
		case !p.gbMode && b == '{':
			p.gbMode = true
			p.odd = false
		case !p.gbMode && (b == '~' || b == '\n'):
		case p.gbMode && b == '}' && !p.odd:
			p.gbMode = false
			p.closed++
		default:
			p.broken = true
		}
		return
	}
	if b == '~' {
		p.tilde = true
		return
	}
	if p.gbMode {
		if b < 0x21 || b > 0x7E {
			p.broken = true
			return
		}
		p.odd = !p.odd
	}
}

func (p *hzProber) finish() {
	if p.gbMode || p.tilde {
		p.broken = true
	}
}

func (p *hzProber) detected() bool {
	return !p.broken && p.closed > 0
}
