package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stripeHeader(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	sig := GenerateSignature([]byte(ts+"."+string(payload)), secret)
	return fmt.Sprintf("t=%s,v1=%s", ts, sig)
}

func TestVerifyStripeSignatureValid(t *testing.T) {
	payload := []byte(`{"type":"invoice.paid"}`)
	header := stripeHeader(payload, "whsec_test", time.Now())

	require.True(t, VerifyStripeSignature(payload, header, "whsec_test", 5*time.Minute))
}

func TestVerifyStripeSignatureWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	header := stripeHeader(payload, "whsec_a", time.Now())

	require.False(t, VerifyStripeSignature(payload, header, "whsec_b", 5*time.Minute))
}

func TestVerifyStripeSignatureTamperedBody(t *testing.T) {
	header := stripeHeader([]byte(`{"amount":100}`), "whsec_test", time.Now())

	require.False(t, VerifyStripeSignature([]byte(`{"amount":999}`), header, "whsec_test", 5*time.Minute))
}

func TestVerifyStripeSignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	header := stripeHeader(payload, "whsec_test", time.Now().Add(-10*time.Minute))

	require.False(t, VerifyStripeSignature(payload, header, "whsec_test", 5*time.Minute))
}

func TestVerifyStripeSignatureMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)

	require.False(t, VerifyStripeSignature(payload, "", "whsec_test", 5*time.Minute))
	require.False(t, VerifyStripeSignature(payload, "t=abc,v1=def", "whsec_test", 5*time.Minute))
	require.False(t, VerifyStripeSignature(payload, "v1=deadbeef", "whsec_test", 5*time.Minute))
	require.False(t, VerifyStripeSignature(payload, fmt.Sprintf("t=%d", time.Now().Unix()), "whsec_test", 5*time.Minute))
}

func TestVerifyStripeSignatureAcceptsSecondCandidate(t *testing.T) {
	// During secret rotation the provider sends one v1 per active secret.
	payload := []byte(`{}`)
	ts := fmt.Sprintf("%d", time.Now().Unix())
	oldSig := GenerateSignature([]byte(ts+"."+string(payload)), "whsec_old")
	newSig := GenerateSignature([]byte(ts+"."+string(payload)), "whsec_new")
	header := fmt.Sprintf("t=%s,v1=%s,v1=%s", ts, oldSig, newSig)

	require.True(t, VerifyStripeSignature(payload, header, "whsec_new", 5*time.Minute))
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte("corpo")
	sig := GenerateSignature(payload, "segredo")

	require.True(t, VerifySignature(payload, sig, "segredo"))
	require.False(t, VerifySignature(payload, sig, "outro"))
	require.False(t, VerifySignature([]byte("outro corpo"), sig, "segredo"))
}
