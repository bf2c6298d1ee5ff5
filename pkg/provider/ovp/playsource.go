package ovp

import (
	"strconv"
	"strings"

	"media-provider-go/pkg/urlutil"
)

// PlaySourceParams are the inputs of a playManifest URL.
type PlaySourceParams struct {
	CDNURL    string
	EntryID   string
	FlavorIDs string
	Format    string
	VS        string
	PartnerID int
	UIConfID  *int
	Extension string
	Protocol  string
}

// PlaySourceURL builds the playManifest URL of an entry. It returns "" when
// the CDN URL, partner id, entry id, format or protocol is missing.
func PlaySourceURL(p PlaySourceParams) string {
	if p.CDNURL == "" || p.PartnerID == 0 || p.EntryID == "" || p.Format == "" || p.Protocol == "" {
		return ""
	}

	pid := strconv.Itoa(p.PartnerID)

	var b strings.Builder
	b.WriteString(urlutil.TrimTrailingSlash(p.CDNURL))
	b.WriteString("/p/" + pid + "/sp/" + pid + "00/playManifest/entryId/" + p.EntryID)
	b.WriteString("/protocol/" + p.Protocol + "/format/" + p.Format)

	switch {
	case p.FlavorIDs != "":
		b.WriteString("/flavorIds/" + p.FlavorIDs)
	case p.UIConfID != nil:
		b.WriteString("/uiConfId/" + strconv.Itoa(*p.UIConfID))
	}

	if p.VS != "" {
		b.WriteString("/vs/" + p.VS)
	}
	if p.Extension != "" {
		b.WriteString("/a." + p.Extension)
	}
	if p.UIConfID != nil && p.FlavorIDs == "" {
		b.WriteString("?uiConfId=" + strconv.Itoa(*p.UIConfID))
	}

	return b.String()
}
