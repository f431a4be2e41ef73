package cli

import (
	"context"
	"fmt"

	"github.com/cdcsn/portal/internal/portal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials in the given mode ("email" or "phone") and
// attempts to authenticate. When the backend requires phone verification the
// session stays unauthenticated and the user is told to enter the code with
// the verify command.
func (a *App) Login(ctx context.Context, mode string) error {
	var (
		creds models.LoginCredentials
		err   error
	)

	switch mode {
	case "phone":
		phone, err := getSimpleText(a.reader, "Numéro de téléphone (+221...)", a.out)
		if err != nil {
			return err
		}
		password, err := getPassword(a.out)
		if err != nil {
			return err
		}
		creds = models.PhoneCredentials(phone, password)
	default:
		email, err := getSimpleText(a.reader, "Adresse email", a.out)
		if err != nil {
			return err
		}
		password, err := getPassword(a.out)
		if err != nil {
			return err
		}
		creds = models.EmailCredentials(email, password)
	}

	resp, err := a.store.Login(ctx, creds)
	if err != nil {
		fmt.Fprintf(a.out, "Connexion impossible: %s\n", a.store.Session().LastError)
		return nil
	}

	if resp.RequiresPhoneVerification {
		if resp.Message != "" {
			fmt.Fprintln(a.out, resp.Message)
		} else {
			fmt.Fprintln(a.out, "Un code de vérification a été envoyé sur votre téléphone.")
		}
		if resp.OTPPreview != "" {
			// Only non-production backends ever send this.
			fmt.Fprintf(a.out, "(code de test: %s)\n", resp.OTPPreview)
		}
		fmt.Fprintln(a.out, "Entrez le code avec 'verify', ou renvoyez-le avec 'resend'.")
		return nil
	}

	fmt.Fprintln(a.out, "Connexion réussie.")
	return nil
}

// Verify prompts for the one-time code of the pending login and submits it.
func (a *App) Verify(ctx context.Context) error {
	if !a.store.HasPendingVerification() {
		fmt.Fprintln(a.out, "Aucune vérification en attente. Connectez-vous d'abord.")
		return nil
	}

	code, err := getSimpleText(a.reader, "Code OTP", a.out)
	if err != nil {
		return err
	}

	resp, err := a.store.VerifyPhone(ctx, code)
	if err != nil {
		fmt.Fprintf(a.out, "Vérification impossible: %s\n", a.store.Session().LastError)
		return nil
	}

	if resp.Authenticated() {
		fmt.Fprintln(a.out, "Téléphone vérifié. Connexion réussie.")
	}
	return nil
}

// Resend asks the backend for a fresh one-time code by re-running the pending
// login.
func (a *App) Resend(ctx context.Context) error {
	resp, err := a.store.ResendCode(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Renvoi impossible: %s\n", a.store.Session().LastError)
		return nil
	}

	fmt.Fprintln(a.out, "Un nouveau code a été envoyé.")
	if resp.OTPPreview != "" {
		fmt.Fprintf(a.out, "(code de test: %s)\n", resp.OTPPreview)
	}
	return nil
}

// Register walks through the account creation prompts and submits the
// registration. The backend performs the authoritative validation; its
// message is shown as-is.
func (a *App) Register(ctx context.Context) error {
	reg := models.Registration{AccountType: models.AccountIndividual}

	prompts := []struct {
		label string
		dest  *string
	}{
		{"Nom", &reg.LastName},
		{"Prénom", &reg.FirstName},
		{"Adresse email", &reg.Email},
		{"Numéro de téléphone (+221...)", &reg.Phone},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dest = v
	}

	accountType, err := getSimpleText(a.reader, "Type de compte (individual/business/institution)", a.out)
	if err != nil {
		return err
	}
	if accountType != "" {
		reg.AccountType = accountType
	}
	if reg.AccountType != models.AccountIndividual {
		name, err := getSimpleText(a.reader, "Nom de l'organisation", a.out)
		if err != nil {
			return err
		}
		reg.OrganizationName = name
		orgType, err := getSimpleText(a.reader, "Type d'organisation", a.out)
		if err != nil {
			return err
		}
		reg.OrganizationType = orgType
	}

	if reg.Password, err = getPassword(a.out); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Confirmez le mot de passe.")
	if reg.PasswordConfirmation, err = getPassword(a.out); err != nil {
		return err
	}

	resp, err := a.store.Register(ctx, reg)
	if err != nil {
		fmt.Fprintf(a.out, "Inscription impossible: %s\n", a.store.Session().LastError)
		return nil
	}

	fmt.Fprintln(a.out, resp.Message)
	if resp.RequiresPhoneVerification {
		fmt.Fprintln(a.out, "Connectez-vous pour vérifier votre numéro de téléphone.")
	}
	return nil
}

// Logout terminates the session. The store already guarantees the local
// session is cleared whatever the network does.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Déconnexion réussie.")
	return nil
}

// WhoAmI prints the current session state.
func (a *App) WhoAmI() {
	sess := a.store.Session()
	if !sess.IsAuthenticated {
		fmt.Fprintln(a.out, "Non connecté.")
		return
	}
	u := sess.User
	fmt.Fprintf(a.out, "%s %s <%s> (%s)\n", u.FirstName, u.LastName, u.Email, u.AccountType)
}
