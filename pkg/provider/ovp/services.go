package ovp

import (
	"strconv"

	"media-provider-go/pkg/request"
)

// Backend services and the response profile fields requested for entries.
const (
	serviceSession  = "session"
	serviceEntry    = "baseEntry"
	serviceMetadata = "metadata_metadata"
	servicePlaylist = "playlist"

	entryFields    = "id,name,description,thumbnailUrl,dataUrl,duration,msDuration,flavorParamsIds,mediaType,type,tags,dvrStatus,referenceId"
	playlistFields = "id,name,description,thumbnailUrl"

	// responseProfileInclude selects only the listed fields.
	responseProfileInclude = 1
)

func responseProfile(fields string) map[string]any {
	return map[string]any{"fields": fields, "type": responseProfileInclude}
}

// startWidgetSession opens an anonymous session for a partner widget.
func startWidgetSession(serviceURL, widgetID string) *request.Request {
	return request.New(serviceURL, serviceSession, "startWidgetSession", map[string]any{
		"widgetId": widgetID,
	})
}

// defaultWidgetID is the implicit widget of a partner.
func defaultWidgetID(partnerID int) string {
	return "_" + strconv.Itoa(partnerID)
}

// listEntry fetches one entry, following its redirect when redirect is set.
func listEntry(serviceURL, vs, entryID string, redirect bool) *request.Request {
	filter := map[string]any{"idEqual": entryID}
	if redirect {
		filter = map[string]any{"redirectFromEntryId": entryID}
	}
	return request.New(serviceURL, serviceEntry, "list", map[string]any{
		"vs":              vs,
		"filter":          filter,
		"responseProfile": responseProfile(entryFields),
	}).WithTag("list")
}

func getPlaybackContext(serviceURL, vs, entryID string) *request.Request {
	return request.New(serviceURL, serviceEntry, "getPlaybackContext", map[string]any{
		"entryId": entryID,
		"vs":      vs,
		"contextDataParams": map[string]any{
			"objectType": "VidiunContextDataParams",
			"flavorTags": "all",
		},
	})
}

func listMetadata(serviceURL, vs, entryID string) *request.Request {
	return request.New(serviceURL, serviceMetadata, "list", map[string]any{
		"vs": vs,
		"filter": map[string]any{
			"objectType":              "VidiunMetadataFilter",
			"objectIdEqual":           entryID,
			"metadataObjectTypeEqual": "1",
		},
	})
}

func getPlaylist(serviceURL, vs, playlistID string) *request.Request {
	return request.New(serviceURL, servicePlaylist, "get", map[string]any{
		"vs":              vs,
		"id":              playlistID,
		"responseProfile": responseProfile(playlistFields),
	})
}

func executePlaylist(serviceURL, vs, playlistID string) *request.Request {
	return request.New(serviceURL, servicePlaylist, "execute", map[string]any{
		"vs":              vs,
		"id":              playlistID,
		"responseProfile": responseProfile(entryFields),
	})
}
