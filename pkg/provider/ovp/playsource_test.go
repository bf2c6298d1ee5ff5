package ovp

import "testing"

func TestPlaySourceURL(t *testing.T) {
	uiConf := 15215933

	tests := []struct {
		name   string
		params PlaySourceParams
		want   string
	}{
		{
			name: "flavor ids",
			params: PlaySourceParams{
				CDNURL: "https://cdn.example.com", EntryID: "0_abc", FlavorIDs: "0_f1,0_f2",
				Format: "applehttp", PartnerID: 1091, Extension: "m3u8", Protocol: "https",
			},
			want: "https://cdn.example.com/p/1091/sp/109100/playManifest/entryId/0_abc/protocol/https/format/applehttp/flavorIds/0_f1,0_f2/a.m3u8",
		},
		{
			name: "trailing slash on cdn is kept single",
			params: PlaySourceParams{
				CDNURL: "https://cdn.example.com/", EntryID: "0_abc", Format: "url",
				PartnerID: 1, Protocol: "http",
			},
			want: "https://cdn.example.com/p/1/sp/100/playManifest/entryId/0_abc/protocol/http/format/url",
		},
		{
			name: "session token",
			params: PlaySourceParams{
				CDNURL: "https://cdn.example.com", EntryID: "0_abc", FlavorIDs: "0_f1",
				Format: "url", PartnerID: 1091, VS: "djJ8MTA5MX", Extension: "mp4", Protocol: "https",
			},
			want: "https://cdn.example.com/p/1091/sp/109100/playManifest/entryId/0_abc/protocol/https/format/url/flavorIds/0_f1/vs/djJ8MTA5MX/a.mp4",
		},
		{
			name: "uiConf without flavors appears in path and query",
			params: PlaySourceParams{
				CDNURL: "https://cdn.example.com", EntryID: "0_abc", Format: "mpegdash",
				PartnerID: 1091, UIConfID: &uiConf, Extension: "mpd", Protocol: "https",
			},
			want: "https://cdn.example.com/p/1091/sp/109100/playManifest/entryId/0_abc/protocol/https/format/mpegdash/uiConfId/15215933/a.mpd?uiConfId=15215933",
		},
		{
			name: "uiConf with flavors is not appended",
			params: PlaySourceParams{
				CDNURL: "https://cdn.example.com", EntryID: "0_abc", FlavorIDs: "0_f1",
				Format: "mpegdash", PartnerID: 1091, UIConfID: &uiConf, Extension: "mpd", Protocol: "https",
			},
			want: "https://cdn.example.com/p/1091/sp/109100/playManifest/entryId/0_abc/protocol/https/format/mpegdash/flavorIds/0_f1/a.mpd",
		},
		{name: "missing cdn", params: PlaySourceParams{EntryID: "0_abc", Format: "url", PartnerID: 1, Protocol: "https"}},
		{name: "missing partner", params: PlaySourceParams{CDNURL: "https://c", EntryID: "0_abc", Format: "url", Protocol: "https"}},
		{name: "missing entry", params: PlaySourceParams{CDNURL: "https://c", Format: "url", PartnerID: 1, Protocol: "https"}},
		{name: "missing format", params: PlaySourceParams{CDNURL: "https://c", EntryID: "0_abc", PartnerID: 1, Protocol: "https"}},
		{name: "missing protocol", params: PlaySourceParams{CDNURL: "https://c", EntryID: "0_abc", Format: "url", PartnerID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlaySourceURL(tt.params)
			if got != tt.want {
				t.Errorf("PlaySourceURL() = %q, want %q", got, tt.want)
			}
			if again := PlaySourceURL(tt.params); again != got {
				t.Errorf("PlaySourceURL() not deterministic: %q vs %q", got, again)
			}
		})
	}
}
