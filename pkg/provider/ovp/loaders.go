package ovp

import (
	"errors"
	"fmt"

	"media-provider-go/pkg/loader"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"

	"github.com/samber/lo"
)

// Loader ids.
const (
	SessionLoaderID   = "session"
	MediaLoaderID     = "media"
	EntryListLoaderID = "entry_list"
	PlaylistLoaderID  = "playlist"
)

// SessionLoader opens an anonymous widget session.
type SessionLoader struct {
	loader.Base
	widgetID string
	token    string
}

func newSessionLoader(serviceURL, widgetID string) *SessionLoader {
	l := &SessionLoader{widgetID: widgetID}
	l.AddRequest(startWidgetSession(serviceURL, widgetID))
	return l
}

func (l *SessionLoader) ID() string    { return SessionLoaderID }
func (l *SessionLoader) IsValid() bool { return l.widgetID != "" }
func (l *SessionLoader) Token() string { return l.token }

func (l *SessionLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	var resp sessionResponse
	if err := results[0].Decode(&resp); err != nil {
		return fmt.Errorf("failed to decode session: %w", err)
	}
	l.token = resp.VS
	return nil
}

// MediaEntryLoader fetches an entry, its playback context and its custom
// metadata.
type MediaEntryLoader struct {
	loader.Base
	entryID string

	Entry           *MediaEntry
	PlaybackContext PlaybackContext
	Metadata        MetadataListResponse
}

func newMediaEntryLoader(serviceURL, entryID, vs string, redirect bool) *MediaEntryLoader {
	l := &MediaEntryLoader{entryID: entryID}
	l.AddRequest(listEntry(serviceURL, vs, entryID, redirect))
	l.AddRequest(getPlaybackContext(serviceURL, vs, entryID))
	l.AddRequest(listMetadata(serviceURL, vs, entryID))
	return l
}

func (l *MediaEntryLoader) ID() string    { return MediaLoaderID }
func (l *MediaEntryLoader) IsValid() bool { return l.entryID != "" }

func (l *MediaEntryLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}

	var list BaseEntryListResponse
	if err := results[0].Decode(&list); err != nil {
		return fmt.Errorf("failed to decode entry list: %w", err)
	}
	if len(list.Objects) == 0 {
		return fmt.Errorf("%s: %w", l.entryID, types.ErrEntryNotFound)
	}
	l.Entry = &list.Objects[0]

	if err := results[1].Decode(&l.PlaybackContext); err != nil {
		return fmt.Errorf("failed to decode playback context: %w", err)
	}
	if err := results[2].Decode(&l.Metadata); err != nil {
		return fmt.Errorf("failed to decode metadata list: %w", err)
	}
	return nil
}

// EntryListLoader fetches the base data of several entries, one request per
// entry.
type EntryListLoader struct {
	loader.Base
	entryIDs []string

	Entries []MediaEntry
}

func newEntryListLoader(serviceURL string, entryIDs []string, vs string, redirect bool) *EntryListLoader {
	l := &EntryListLoader{entryIDs: entryIDs}
	for _, id := range entryIDs {
		l.AddRequest(listEntry(serviceURL, vs, id, redirect))
	}
	return l
}

func (l *EntryListLoader) ID() string { return EntryListLoaderID }

func (l *EntryListLoader) IsValid() bool {
	return len(l.entryIDs) > 0 && !lo.Contains(l.entryIDs, "")
}

func (l *EntryListLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	for i, r := range results {
		var list BaseEntryListResponse
		if err := r.Decode(&list); err != nil {
			return fmt.Errorf("failed to decode entry %s: %w", l.entryIDs[i], err)
		}
		if len(list.Objects) > 0 {
			l.Entries = append(l.Entries, list.Objects[0])
		}
	}
	return nil
}

// PlaylistLoader fetches a playlist and the entries it resolves to.
type PlaylistLoader struct {
	loader.Base
	playlistID string

	Playlist MediaEntry
	Entries  []MediaEntry
}

func newPlaylistLoader(serviceURL, playlistID, vs string) *PlaylistLoader {
	l := &PlaylistLoader{playlistID: playlistID}
	l.AddRequest(getPlaylist(serviceURL, vs, playlistID))
	l.AddRequest(executePlaylist(serviceURL, vs, playlistID))
	return l
}

func (l *PlaylistLoader) ID() string    { return PlaylistLoaderID }
func (l *PlaylistLoader) IsValid() bool { return l.playlistID != "" }

func (l *PlaylistLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	if len(results) != 2 {
		return errors.New("playlist expects two responses")
	}
	if err := results[0].Decode(&l.Playlist); err != nil {
		return fmt.Errorf("failed to decode playlist: %w", err)
	}
	if err := results[1].Decode(&l.Entries); err != nil {
		return fmt.Errorf("failed to decode playlist entries: %w", err)
	}
	return nil
}
