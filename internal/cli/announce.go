package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/protocol"
)

func newAnnounceCmd() *cobra.Command {
	var (
		secret  string
		action  string
		target  string
		partyID string
		meta    string
	)

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Send an operational announcement",
		Long: `announce pushes a controller broadcast through the server: either to
every connection (--target all) or to one party (--target party --party CODE).

The controller secret is read from --secret or ECHOBOUND_CONTROL_SECRET.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("ECHOBOUND_CONTROL_SECRET")
			}
			if secret == "" {
				return errors.New("no controller secret: set --secret or ECHOBOUND_CONTROL_SECRET")
			}

			var rawMeta json.RawMessage
			if meta != "" {
				if !json.Valid([]byte(meta)) {
					return errors.New("--meta must be valid JSON")
				}
				rawMeta = json.RawMessage(meta)
			}

			conn, err := dialWS(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			payload := struct {
				Type string `json:"type"`
				protocol.Controller
			}{
				Type: protocol.TypeController,
				Controller: protocol.Controller{
					Secret:  secret,
					Action:  action,
					Target:  target,
					PartyID: model.PartyID(partyID),
					Meta:    rawMeta,
				},
			}
			if err := conn.WriteJSON(payload); err != nil {
				return err
			}

			// A global broadcast echoes back to this connection; a
			// party-targeted one does not, so a quiet timeout means the
			// command was accepted.
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			for {
				var reply struct {
					Type    string `json:"type"`
					Message string `json:"message"`
				}
				if err := conn.ReadJSON(&reply); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "announcement sent")
					return nil
				}
				switch reply.Type {
				case protocol.TypeControllerBroadcast:
					fmt.Fprintln(cmd.OutOrStdout(), "announcement delivered")
					return nil
				case protocol.TypeControllerError:
					return fmt.Errorf("controller error: %s", reply.Message)
				case protocol.TypeError:
					return fmt.Errorf("server error: %s", reply.Message)
				}
			}
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Controller secret (env: ECHOBOUND_CONTROL_SECRET)")
	cmd.Flags().StringVar(&action, "action", "announce", "Announcement action tag")
	cmd.Flags().StringVar(&target, "target", "all", "Broadcast target: all or party")
	cmd.Flags().StringVar(&partyID, "party", "", "Party code (required with --target party)")
	cmd.Flags().StringVar(&meta, "meta", "", "Announcement metadata as JSON")

	return cmd
}
