package ovp

import "testing"

func TestParseMetadataXML(t *testing.T) {
	doc := "<metadata>\r\n  <Genre>Drama</Genre>\n  <Year> 2016 </Year>\n  <Genre>Comedy</Genre><Empty/></metadata>"

	got, err := ParseMetadataXML(doc)
	if err != nil {
		t.Fatalf("ParseMetadataXML() error = %v", err)
	}

	want := map[string]string{"Genre": "Comedy", "Year": "2016", "Empty": ""}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestParseMetadataXMLInvalid(t *testing.T) {
	if _, err := ParseMetadataXML("<metadata><Genre>Drama</metadata>"); err == nil {
		t.Error("expected error for malformed xml")
	}
}

func TestBuildCaptions(t *testing.T) {
	got := buildCaptions([]PlaybackCaption{
		{Label: "English", Format: "1", LanguageCode: "en", URL: "https://c/en.srt", IsDefault: true},
		{Label: "Hebrew", Format: "2", LanguageCode: "he", URL: "https://c/he.dfxp", WebVttURL: "https://c/he.vtt"},
		{Label: "French", Format: "3", LanguageCode: "fr", URL: "https://c/fr.vtt"},
		{Label: "Spanish", Format: "4", LanguageCode: "es", URL: "https://c/es.cap", WebVttURL: "https://c/es.vtt"},
	})

	want := []struct{ typ, url string }{
		{"srt", "https://c/en.srt"},
		{"vtt", "https://c/he.vtt"},
		{"vtt", "https://c/fr.vtt"},
		{"vtt", "https://c/es.vtt"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d captions, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].URL != w.url {
			t.Errorf("caption %d = %+v, want type %q url %q", i, got[i], w.typ, w.url)
		}
	}
	if !got[0].Default || got[1].Default {
		t.Error("default flag not carried over")
	}
	if got[0].Language != "en" || got[0].Label != "English" {
		t.Errorf("caption 0 = %+v", got[0])
	}
}
