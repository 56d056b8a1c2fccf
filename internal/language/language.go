// Package language holds the built-in language catalog used by providers
// that do not publish one, such as LLM backends.
package language

import (
	"sort"
	"strings"
)

// names maps provider-style codes (uppercase, regional suffix) to English names.
var names = map[string]string{
	"AF":       "Afrikaans",
	"AM":       "Amharic",
	"AR":       "Arabic",
	"AS":       "Assamese",
	"AZ":       "Azerbaijani",
	"BE":       "Belarusian",
	"BG":       "Bulgarian",
	"BN":       "Bengali",
	"BS":       "Bosnian",
	"CA":       "Catalan",
	"CEB":      "Cebuano",
	"CO":       "Corsican",
	"CS":       "Czech",
	"CY":       "Welsh",
	"DA":       "Danish",
	"DE":       "German",
	"DV":       "Dhivehi",
	"EL":       "Greek",
	"EN":       "English",
	"EN-GB":    "English (British)",
	"EN-US":    "English (American)",
	"EO":       "Esperanto",
	"ES":       "Spanish",
	"ES-419":   "Spanish (Latin American)",
	"ET":       "Estonian",
	"EU":       "Basque",
	"FA":       "Persian",
	"FI":       "Finnish",
	"FIL":      "Filipino",
	"FR":       "French",
	"FY":       "Frisian",
	"GA":       "Irish",
	"GD":       "Scots Gaelic",
	"GL":       "Galician",
	"GU":       "Gujarati",
	"HA":       "Hausa",
	"HAW":      "Hawaiian",
	"HE":       "Hebrew",
	"HI":       "Hindi",
	"HMN":      "Hmong",
	"HR":       "Croatian",
	"HT":       "Haitian Creole",
	"HU":       "Hungarian",
	"HY":       "Armenian",
	"ID":       "Indonesian",
	"IG":       "Igbo",
	"IS":       "Icelandic",
	"IT":       "Italian",
	"JA":       "Japanese",
	"JV":       "Javanese",
	"KA":       "Georgian",
	"KK":       "Kazakh",
	"KM":       "Khmer",
	"KN":       "Kannada",
	"KO":       "Korean",
	"KRI":      "Krio",
	"KU":       "Kurdish",
	"KY":       "Kyrgyz",
	"LA":       "Latin",
	"LB":       "Luxembourgish",
	"LO":       "Lao",
	"LT":       "Lithuanian",
	"LV":       "Latvian",
	"MG":       "Malagasy",
	"MI":       "Maori",
	"MK":       "Macedonian",
	"ML":       "Malayalam",
	"MN":       "Mongolian",
	"MNI-MTEI": "Meiteilon (Manipuri)",
	"MR":       "Marathi",
	"MS":       "Malay",
	"MT":       "Maltese",
	"MY":       "Myanmar (Burmese)",
	"NB":       "Norwegian (Bokmål)",
	"NE":       "Nepali",
	"NL":       "Dutch",
	"NY":       "Nyanja (Chichewa)",
	"OR":       "Odia (Oriya)",
	"PA":       "Punjabi",
	"PL":       "Polish",
	"PS":       "Pashto",
	"PT":       "Portuguese",
	"PT-BR":    "Portuguese (Brazilian)",
	"PT-PT":    "Portuguese (European)",
	"RO":       "Romanian",
	"RU":       "Russian",
	"SD":       "Sindhi",
	"SI":       "Sinhala (Sinhalese)",
	"SK":       "Slovak",
	"SL":       "Slovenian",
	"SM":       "Samoan",
	"SN":       "Shona",
	"SO":       "Somali",
	"SQ":       "Albanian",
	"SR":       "Serbian",
	"ST":       "Sesotho",
	"SU":       "Sundanese",
	"SV":       "Swedish",
	"SW":       "Swahili",
	"TA":       "Tamil",
	"TE":       "Telugu",
	"TG":       "Tajik",
	"TH":       "Thai",
	"TR":       "Turkish",
	"UG":       "Uyghur",
	"UK":       "Ukrainian",
	"UR":       "Urdu",
	"UZ":       "Uzbek",
	"VI":       "Vietnamese",
	"XH":       "Xhosa",
	"YI":       "Yiddish",
	"YO":       "Yoruba",
	"ZH":       "Chinese",
	"ZH-HANS":  "Chinese (Simplified)",
	"ZH-HANT":  "Chinese (Traditional)",
	"ZU":       "Zulu",
}

// Name returns the English name for code, matching case-insensitively.
func Name(code string) (string, bool) {
	n, ok := names[strings.ToUpper(strings.TrimSpace(code))]
	return n, ok
}

// Catalog returns a copy of the code → name table.
func Catalog() map[string]string {
	out := make(map[string]string, len(names))
	for k, v := range names {
		out[k] = v
	}
	return out
}

// Entry is a catalog row for listing.
type Entry struct {
	Code string
	Name string
}

// Entries returns the catalog sorted by name and then code.
func Entries(catalog map[string]string) []Entry {
	entries := make([]Entry, 0, len(catalog))
	for k, v := range catalog {
		entries = append(entries, Entry{Code: k, Name: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}
