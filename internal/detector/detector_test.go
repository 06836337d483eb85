package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatbody/convert-encoding/internal/charset"
)

const (
	russianText = "Привет, мир! Это простой текст для проверки определения кодировки. " +
		"Мы пишем несколько предложений на русском языке, чтобы статистика была надежной. " +
		"Кот спит на окне, а собака гуляет во дворе."
	frenchText = "Le café était très agréable à côté de la fenêtre. " +
		"Où est le garçon? Voilà déjà l'été, et la forêt est belle."
	greekText = "Η γλώσσα είναι πλούσια και όμορφη. Το κείμενο αυτό γράφτηκε για " +
		"δοκιμή του εντοπισμού της κωδικοποίησης και της στατιστικής."
)

func encode(t *testing.T, e charset.Encoding, s string) []byte {
	t.Helper()
	b, err := e.Codec().NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func detect(data []byte) Result {
	return Detect(data, DefaultOptions())
}

func TestDetect_BOM(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want charset.Encoding
	}{
		{"utf-8", []byte("\xEF\xBB\xBFhello"), charset.UTF8},
		{"utf-16le", []byte("\xFF\xFEh\x00i\x00"), charset.UTF16LE},
		{"utf-16be", []byte("\xFE\xFF\x00h\x00i"), charset.UTF16BE},
		{"utf-32le before utf-16le", []byte("\xFF\xFE\x00\x00h\x00\x00\x00"), charset.UTF32LE},
		{"utf-32be", []byte("\x00\x00\xFE\xFF\x00\x00\x00h"), charset.UTF32BE},
		{"bom only", []byte("\xEF\xBB\xBF"), charset.UTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(tt.data)
			assert.Equal(t, tt.want, got.Encoding)
			assert.Equal(t, 1.0, got.Confidence)
			assert.True(t, got.BOM)
		})
	}
}

func TestDetect_Empty(t *testing.T) {
	got := detect(nil)
	assert.False(t, got.Known())
	assert.Equal(t, charset.Unknown, got.Encoding)
	assert.ErrorIs(t, got.Err(), ErrInconclusive)
	assert.Contains(t, got.Reason, "empty")
}

func TestDetect_Binary(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nul and high bytes", []byte{0x00, 0x01, 0x02, 0xFF, 0xFE}},
		{"control bytes", []byte("a\x01b\x02c\x03d\x04e\x05")},
		{"nul padded", []byte("abc\x00\x00\x00\x00def\x00\x00")},
	}
	engines := []Engine{Builtin{Options: DefaultOptions()}, ICU{MinConfidence: DefaultMinConfidence}}
	for _, tt := range tests {
		for _, e := range engines {
			t.Run(tt.name+"/"+e.Name(), func(t *testing.T) {
				got := e.Detect(tt.data)
				assert.False(t, got.Known(), "got %v", got.Encoding)
				assert.Contains(t, got.Reason, "binary")
			})
		}
	}
}

func TestScreen(t *testing.T) {
	r, ok := Screen([]byte{0x00, 0x01, 0x02, 0xFF, 0xFE}, DefaultOptions())
	require.True(t, ok)
	assert.Contains(t, r.Reason, "binary")

	r, ok = Screen([]byte("\xEF\xBB\xBFhi"), DefaultOptions())
	require.True(t, ok)
	assert.Equal(t, charset.UTF8, r.Encoding)

	r, ok = Screen(encode(t, charset.UTF16LE, "hello world"), DefaultOptions())
	require.True(t, ok)
	assert.Equal(t, charset.UTF16LE, r.Encoding)

	_, ok = Screen(encode(t, charset.Windows1251, russianText), DefaultOptions())
	assert.False(t, ok)
}

func TestDetect_SevenBit(t *testing.T) {
	got := detect([]byte("plain ascii text\r\n\twith tabs\n"))
	assert.Equal(t, charset.USASCII, got.Encoding)
	assert.Equal(t, 1.0, got.Confidence)

	jis := encode(t, charset.ISO2022JP, "こんにちは world")
	assert.Equal(t, charset.ISO2022JP, detect(jis).Encoding)

	hz := encode(t, charset.HZGB2312, "你好 world")
	assert.Equal(t, charset.HZGB2312, detect(hz).Encoding)

	// ANSI colour sequences are not ISO-2022-JP designators.
	ansi := []byte("\x1b[31mred\x1b[0m plain")
	assert.Equal(t, charset.USASCII, detect(ansi).Encoding)
}

func TestDetect_UTF8(t *testing.T) {
	got := detect([]byte("Grüße aus Köln, 你好世界, привет"))
	assert.Equal(t, charset.UTF8, got.Encoding)
	assert.False(t, got.BOM)

	// Truncated sequence at the end rules UTF-8 out.
	trunc := []byte("caf\xC3")
	assert.NotEqual(t, charset.UTF8, detect(trunc).Encoding)
}

func TestDetect_WideUnicodeWithoutBOM(t *testing.T) {
	le := encode(t, charset.UTF16LE, "hello world")
	assert.Equal(t, charset.UTF16LE, detect(le).Encoding)

	be := encode(t, charset.UTF16BE, "hello world")
	assert.Equal(t, charset.UTF16BE, detect(be).Encoding)

	le32 := encode(t, charset.UTF32LE, "hello")
	assert.Equal(t, charset.UTF32LE, detect(le32).Encoding)
}

func TestDetect_CJK(t *testing.T) {
	tests := []struct {
		name string
		enc  charset.Encoding
		text string
	}{
		{"shift_jis", charset.ShiftJIS, "こんにちは、世界"},
		{"euc-jp", charset.EUCJP, "日本語のテキスト"},
		{"big5", charset.Big5, "這是一個測試"},
		{"gb18030 four-byte", charset.GB18030, "中文😀"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(encode(t, tt.enc, tt.text))
			assert.Equal(t, tt.enc, got.Encoding, "reason: %s", got.Reason)
		})
	}
}

func TestDetect_PriorityBreaksTies(t *testing.T) {
	// Valid as GBK, Big5, EUC-JP and EUC-KR, and plausible Latin-1.
	data := []byte{0xC4, 0xE3, 0xBA, 0xC3}

	got := detect(data)
	assert.Equal(t, charset.GBK, got.Encoding)

	got = Detect(data, Options{Prefer: []charset.Encoding{charset.Big5}})
	assert.Equal(t, charset.Big5, got.Encoding)
	assert.InDelta(t, 0.99, got.Confidence, 1e-9)
}

func TestDetect_PreferBreaksKoreanTie(t *testing.T) {
	data := encode(t, charset.EUCKR, "안녕하세요")

	assert.Equal(t, charset.GBK, detect(data).Encoding)

	got := Detect(data, Options{Prefer: []charset.Encoding{charset.EUCKR}})
	assert.Equal(t, charset.EUCKR, got.Encoding)
}

func TestDetect_SingleByte(t *testing.T) {
	tests := []struct {
		name string
		enc  charset.Encoding
		text string
	}{
		{"russian windows-1251", charset.Windows1251, russianText},
		{"russian koi8-r", charset.KOI8R, russianText},
		{"french windows-1252", charset.Windows1252, frenchText},
		{"greek windows-1253", charset.Windows1253, greekText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(encode(t, tt.enc, tt.text))
			assert.Equal(t, tt.enc, got.Encoding, "reason: %s, confidence %.3f", got.Reason, got.Confidence)
			assert.GreaterOrEqual(t, got.Confidence, DefaultMinConfidence)
		})
	}
}

func TestDetect_MinConfidence(t *testing.T) {
	data := encode(t, charset.Windows1252, frenchText)
	got := Detect(data, Options{MinConfidence: 0.999})
	assert.False(t, got.Known())
	assert.Contains(t, got.Reason, "minimum confidence")
}

func TestDetect_ZeroMinConfidence(t *testing.T) {
	data := encode(t, charset.Windows1252, frenchText)
	strict := Detect(data, Options{MinConfidence: 0.999})
	require.False(t, strict.Known())

	got := Detect(data, Options{})
	assert.True(t, got.Known(), "reason: %s", got.Reason)
	assert.Less(t, got.Confidence, 0.999)
}

func TestDetector_ChunkedFeed(t *testing.T) {
	inputs := map[string][]byte{
		"bom":     []byte("\xFF\xFE\x00\x00h\x00\x00\x00"),
		"utf8":    []byte("Grüße, 你好"),
		"gbk":     {0xC4, 0xE3, 0xBA, 0xC3},
		"russian": encode(t, charset.Windows1251, russianText),
		"utf16":   encode(t, charset.UTF16LE, "hello world"),
		"binary":  {0x00, 0x01, 0x02, 0xFF, 0xFE},
		"jis":     encode(t, charset.ISO2022JP, "こんにちは world"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			d := New(DefaultOptions())
			for i := range data {
				require.NoError(t, d.Feed(data[i:i+1]))
			}
			assert.Equal(t, detect(data), d.Finalize())
		})
	}
}

func TestDetector_FeedAfterFinalize(t *testing.T) {
	d := New(DefaultOptions())
	require.NoError(t, d.Feed([]byte("hello")))
	first := d.Finalize()

	assert.ErrorIs(t, d.Feed([]byte("more")), ErrFinalized)
	assert.Equal(t, first, d.Finalize())
}

func TestPriority(t *testing.T) {
	order := Priority([]charset.Encoding{charset.KOI8R, charset.KOI8R, charset.Unknown})
	require.Len(t, order, len(DefaultPriority))
	assert.Equal(t, charset.KOI8R, order[0])
	assert.Equal(t, charset.UTF8, order[1])

	assert.Equal(t, DefaultPriority, Priority(nil))
}
