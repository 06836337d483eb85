package detector

import "github.com/greatbody/convert-encoding/internal/charset"

// languageProfile is a reference distribution of lowercase non-ASCII runes,
// in percent of all letters of running text. ASCII letters are left out:
// they encode identically in every supported code page and carry no signal.
type languageProfile struct {
	name    string
	letters map[rune]float64
	// bigrams lists frequent lowercase letter pairs; coverage is the share
	// of letter pairs in typical text that these bigrams account for.
	bigrams  map[[2]rune]float64
	coverage float64
}

var westernEuropean = &languageProfile{
	name: "western-european",
	letters: map[rune]float64{
		'é': 2.0, 'è': 0.35, 'à': 0.35, 'ê': 0.2, 'ç': 0.15, 'ô': 0.05,
		'î': 0.04, 'û': 0.03, 'ù': 0.03, 'â': 0.04, 'ë': 0.01, 'ï': 0.01,
		'œ': 0.02, 'ä': 0.5, 'ö': 0.3, 'ü': 0.6, 'ß': 0.3, 'ñ': 0.3,
		'á': 0.5, 'í': 0.5, 'ó': 0.6, 'ú': 0.2, 'ã': 0.3, 'õ': 0.1,
		'å': 0.3, 'ø': 0.3, 'æ': 0.2, 'ì': 0.05, 'ò': 0.05, 'ý': 0.01,
		'þ': 0.01, 'ð': 0.01,
		'¿': 0.02, '¡': 0.01, '«': 0.05, '»': 0.05, 'º': 0.02, 'ª': 0.01,
		'°': 0.02, '€': 0.01, '£': 0.01, '§': 0.01, '©': 0.01,
		'–': 0.05, '—': 0.03, '‘': 0.03, '’': 0.1, '“': 0.05, '”': 0.05,
		'…': 0.02, '•': 0.01,
	},
}

var centralEuropean = &languageProfile{
	name: "central-european",
	letters: map[rune]float64{
		'á': 1.0, 'é': 0.8, 'í': 0.9, 'ó': 0.5, 'ú': 0.2, 'ý': 0.6,
		'č': 0.5, 'ď': 0.02, 'ě': 1.0, 'ň': 0.08, 'ř': 0.6, 'š': 0.5,
		'ť': 0.04, 'ů': 0.2, 'ž': 0.6, 'ą': 0.6, 'ć': 0.3, 'ę': 0.7,
		'ł': 1.2, 'ń': 0.2, 'ś': 0.4, 'ź': 0.05, 'ż': 0.6, 'ö': 0.6,
		'ő': 0.5, 'ü': 0.2, 'ű': 0.1, 'ä': 0.05, 'ô': 0.05, 'ĺ': 0.01,
		'ľ': 0.2, 'ŕ': 0.01, 'đ': 0.1, 'ă': 0.6, 'â': 0.3, 'î': 0.4,
		'ş': 0.5, 'ţ': 0.5,
		'„': 0.05, '“': 0.05, '”': 0.03, '–': 0.03, '«': 0.02, '»': 0.02,
	},
}

var cyrillic = &languageProfile{
	name: "cyrillic",
	letters: map[rune]float64{
		'о': 10.97, 'е': 8.45, 'а': 8.01, 'и': 7.35, 'н': 6.70, 'т': 6.26,
		'с': 5.47, 'р': 4.73, 'в': 4.54, 'л': 4.40, 'к': 3.49, 'м': 3.21,
		'д': 2.98, 'п': 2.81, 'у': 2.62, 'я': 2.01, 'ы': 1.90, 'ь': 1.74,
		'г': 1.70, 'з': 1.65, 'б': 1.59, 'ч': 1.44, 'й': 1.21, 'х': 0.97,
		'ж': 0.94, 'ш': 0.73, 'ю': 0.64, 'ц': 0.48, 'щ': 0.36, 'э': 0.32,
		'ф': 0.26, 'ъ': 0.04, 'ё': 0.04, 'і': 0.5, 'ї': 0.1, 'є': 0.1,
		'«': 0.05, '»': 0.05, '—': 0.05, '№': 0.01,
	},
	bigrams: map[[2]rune]float64{
		{'с', 'т'}: 1.6, {'н', 'о'}: 1.4, {'т', 'о'}: 1.3, {'н', 'а'}: 1.3,
		{'е', 'н'}: 1.2, {'о', 'в'}: 1.1, {'н', 'и'}: 1.1, {'р', 'а'}: 1.0,
		{'в', 'о'}: 1.0, {'к', 'о'}: 1.0, {'р', 'о'}: 0.9, {'а', 'л'}: 0.9,
		{'е', 'т'}: 0.9, {'п', 'р'}: 0.9, {'п', 'о'}: 0.9, {'р', 'е'}: 0.9,
		{'о', 'с'}: 0.85, {'о', 'р'}: 0.85, {'л', 'и'}: 0.8, {'а', 'н'}: 0.8,
		{'о', 'л'}: 0.8, {'е', 'л'}: 0.8, {'к', 'а'}: 0.8, {'г', 'о'}: 0.75,
		{'т', 'ь'}: 0.75, {'л', 'а'}: 0.75, {'е', 'р'}: 0.7, {'н', 'е'}: 0.7,
		{'т', 'а'}: 0.7, {'в', 'а'}: 0.7, {'е', 'с'}: 0.65, {'т', 'е'}: 0.65,
		{'о', 'т'}: 0.6, {'о', 'д'}: 0.6, {'а', 'т'}: 0.6, {'и', 'т'}: 0.55,
	},
	coverage: 0.32,
}

var greek = &languageProfile{
	name: "greek",
	letters: map[rune]float64{
		'α': 12.0, 'ο': 9.8, 'ι': 8.5, 'ε': 8.0, 'τ': 7.9, 'ν': 6.8,
		'η': 5.0, 'σ': 4.3, 'ς': 2.6, 'υ': 4.3, 'ρ': 4.5, 'π': 4.0,
		'κ': 4.0, 'μ': 3.2, 'λ': 2.8, 'ω': 2.0, 'δ': 1.8, 'γ': 1.6,
		'χ': 1.1, 'θ': 1.2, 'φ': 0.8, 'β': 0.7, 'ξ': 0.4, 'ψ': 0.15,
		'ζ': 0.3, 'ά': 1.5, 'έ': 1.3, 'ί': 1.4, 'ό': 1.4, 'ύ': 0.9,
		'ή': 0.9, 'ώ': 0.6, 'ϊ': 0.05, 'ϋ': 0.02, 'ΐ': 0.01, 'ΰ': 0.01,
		'«': 0.05, '»': 0.05, '·': 0.05,
	},
	bigrams: map[[2]rune]float64{
		{'τ', 'ο'}: 2.0, {'ο', 'υ'}: 1.8, {'α', 'ι'}: 1.5, {'ε', 'ι'}: 1.2,
		{'τ', 'η'}: 1.1, {'η', 'ς'}: 1.0, {'ι', 'α'}: 0.9, {'κ', 'α'}: 0.9,
		{'ο', 'ν'}: 0.9, {'ν', 'α'}: 0.8, {'σ', 'τ'}: 0.8, {'ε', 'ρ'}: 0.7,
		{'α', 'π'}: 0.6, {'ν', 'τ'}: 0.6, {'π', 'ο'}: 0.6, {'τ', 'α'}: 0.6,
		{'ο', 'ς'}: 0.6, {'ε', 'ν'}: 0.5, {'μ', 'ε'}: 0.5, {'α', 'ν'}: 0.5,
	},
	coverage: 0.18,
}

// codePageProfiles binds every single-byte code page to the languages it
// is used for.
var codePageProfiles = map[charset.Encoding][]*languageProfile{
	charset.Windows1252: {westernEuropean},
	charset.ISO88591:    {westernEuropean},
	charset.ISO885915:   {westernEuropean},
	charset.Windows1250: {centralEuropean},
	charset.ISO88592:    {centralEuropean},
	charset.Windows1251: {cyrillic},
	charset.KOI8R:       {cyrillic},
	charset.ISO88595:    {cyrillic},
	charset.IBM866:      {cyrillic},
	charset.Windows1253: {greek},
	charset.ISO88597:    {greek},
}
