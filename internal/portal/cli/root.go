package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	sess := a.store.Session()
	switch {
	case sess.IsAuthenticated:
		return fmt.Sprintf("(%s)", sess.User.Email)
	case a.store.HasPendingVerification():
		return "(code requis)"
	default:
		return ""
	}
}

// Root runs the command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Espace CDC Sénégal (tapez 'help' pour les commandes)")

	for {
		fmt.Fprintf(a.out, "cdc %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Commandes: whoami, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Commandes: login [email|phone], verify, resend, register, exit")
			}
		case "login":
			mode := "email"
			if len(args) > 0 {
				mode = args[0]
			}
			// Switching input mode abandons any pending verification.
			a.store.ClearPending()
			if err := a.Login(ctx, mode); err != nil {
				return
			}
		case "verify":
			if err := a.Verify(ctx); err != nil {
				return
			}
		case "resend":
			if err := a.Resend(ctx); err != nil {
				return
			}
		case "register":
			if err := a.Register(ctx); err != nil {
				return
			}
		case "whoami":
			a.WhoAmI()
		case "logout":
			if err := a.Logout(ctx); err != nil {
				return
			}
		case "exit", "quit":
			fmt.Fprintln(a.out, "Au revoir!")
			return
		default:
			fmt.Fprintln(a.out, "Commande inconnue:", cmd)
		}
	}
}
