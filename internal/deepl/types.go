package deepl

// TranslateRequest is the JSON body of POST /v2/translate.
// SourceLang is left empty by callers so DeepL detects the source.
type TranslateRequest struct {
	Text        []string `json:"text"`
	SourceLang  string   `json:"source_lang,omitempty"`
	TargetLang  string   `json:"target_lang"`
	Formality   string   `json:"formality,omitempty"`
	TagHandling string   `json:"tag_handling,omitempty"`
}

// Translation is one entry of the translate response, positionally aligned
// with TranslateRequest.Text.
type Translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

type translateResponse struct {
	Translations []Translation `json:"translations"`
}

// Language is an entry of GET /v2/languages.
type Language struct {
	Code              string `json:"language"`
	Name              string `json:"name"`
	SupportsFormality bool   `json:"supports_formality,omitempty"`
}

// Usage is the response of GET /v2/usage.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
