// Package hyprctl sends commands to a running Hyprland compositor over its
// request socket.
//
// Each request opens a new connection, writes one command, and reads the reply
// until the compositor closes the connection.
//
//	c, err := hyprctl.New()
//	if err != nil {
//		return err
//	}
//	err = c.Keyword(ctx, "general:gaps_in", "5")
package hyprctl
