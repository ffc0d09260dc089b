package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseCredentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

func (c FirebaseCredentials) Configured() bool {
	return c.ProjectID != "" && c.ClientEmail != "" && c.PrivateKey != ""
}

// Firebase verifies ID tokens with the Firebase Admin SDK.
type Firebase struct {
	client *fbauth.Client
}

// NewFirebase builds an admin client from the service-account fields.
// The private key arrives through env with literal "\n" sequences, same
// as the deployment the credentials were copied from.
func NewFirebase(ctx context.Context, creds FirebaseCredentials) (*Firebase, error) {
	sa := map[string]string{
		"type":         "service_account",
		"project_id":   creds.ProjectID,
		"client_email": creds.ClientEmail,
		"private_key":  strings.ReplaceAll(creds.PrivateKey, `\n`, "\n"),
	}

	raw, err := json.Marshal(sa)

	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: creds.ProjectID}, option.WithCredentialsJSON(raw))

	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)

	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}

	return &Firebase{client: client}, nil
}

func (f *Firebase) VerifyIdentityToken(ctx context.Context, token string) (Claim, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)

	if err != nil {
		return Claim{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Claim{
		Email: stringClaim(decoded.Claims, "email"),
		Phone: stringClaim(decoded.Claims, "phone_number"),
		Name:  stringClaim(decoded.Claims, "name"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, ok := claims[key]

	if !ok {
		return ""
	}

	s, ok := v.(string)

	if !ok {
		return ""
	}

	return s
}
