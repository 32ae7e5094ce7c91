package firebase

import (
	"context"
)

// GenerateDevToken mints a custom token for local testing. Clients exchange
// it for an ID token with the Firebase client SDK.
func (f *FirebaseAuthClient) GenerateDevToken(ctx context.Context, uid string, admin bool) (string, error) {
	if !admin {
		return f.client.CustomToken(ctx, uid)
	}
	return f.client.CustomTokenWithClaims(ctx, uid, map[string]interface{}{AdminClaim: true})
}
