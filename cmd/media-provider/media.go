package main

import (
	"errors"

	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/provider/ovp"
	"media-provider-go/pkg/types"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	mediaCmd.Flags().String("vs", "", "Session token; an anonymous session is opened when empty")
	mediaCmd.Flags().StringSliceP("format", "f", nil, "Only keep sources of these device formats (OTT)")
	mediaCmd.Flags().String("media-type", "", "Asset type: media, epg or recording (OTT)")
	mediaCmd.Flags().String("context-type", "", "Playback context: PLAYBACK, TRAILER, CATCHUP or START_OVER (OTT)")
	mediaCmd.Flags().String("protocol", "", "Requested media protocol (OTT)")
	mediaCmd.Flags().String("file-ids", "", "Comma separated asset file ids (OTT)")
	mediaCmd.Flags().String("asset-reference-type", "", "Asset reference type (OTT)")
	rootCmd.AddCommand(mediaCmd)

	entriesCmd.Flags().String("vs", "", "Session token; an anonymous session is opened when empty")
	rootCmd.AddCommand(entriesCmd)

	playlistCmd.Flags().String("vs", "", "Session token; an anonymous session is opened when empty")
	rootCmd.AddCommand(playlistCmd)
}

var mediaCmd = &cobra.Command{
	Use:     "media <provider> <entryId>",
	Short:   "Print the media config of an entry",
	Example: "  media-provider media ovp 0_wifqaipd\n  media-provider media ott 258656 --format Web_HD --context-type PLAYBACK",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "error")
		if err != nil {
			return err
		}
		p, err := lookupProvider(a, args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		info := types.MediaInfo{
			EntryID:            args[1],
			VS:                 lo.Must(flags.GetString("vs")),
			Formats:            lo.Must(flags.GetStringSlice("format")),
			MediaType:          lo.Must(flags.GetString("media-type")),
			ContextType:        lo.Must(flags.GetString("context-type")),
			Protocol:           lo.Must(flags.GetString("protocol")),
			FileIDs:            lo.Must(flags.GetString("file-ids")),
			AssetReferenceType: lo.Must(flags.GetString("asset-reference-type")),
		}

		ctx, stop := commandContext(cmd)
		defer stop()
		cfg, err := p.GetMediaConfig(ctx, info)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cfg)
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries <provider> <entryId>...",
	Short: "Print the base data of several entries",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "error")
		if err != nil {
			return err
		}
		p, err := lookupProvider(a, args[0])
		if err != nil {
			return err
		}
		info := types.EntryListInfo{
			Entries: lo.Map(args[1:], func(id string, _ int) types.EntryRef { return types.EntryRef{EntryID: id} }),
			VS:      lo.Must(cmd.Flags().GetString("vs")),
		}

		ctx, stop := commandContext(cmd)
		defer stop()
		pl, err := p.GetEntryListConfig(ctx, info)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), pl)
	},
}

var playlistCmd = &cobra.Command{
	Use:   "playlist <playlistId>",
	Short: "Print an OVP playlist and the base data of its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "error")
		if err != nil {
			return err
		}
		p, err := lookupProvider(a, ovp.Name)
		if err != nil {
			return err
		}
		pp, ok := p.(interfaces.PlaylistProvider)
		if !ok {
			return errors.New("provider does not serve playlists")
		}

		ctx, stop := commandContext(cmd)
		defer stop()
		pl, err := pp.GetPlaylistConfig(ctx, types.PlaylistInfo{
			PlaylistID: args[0],
			VS:         lo.Must(cmd.Flags().GetString("vs")),
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), pl)
	},
}
