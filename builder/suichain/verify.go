package suichain

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mindshard/mindshard-server/common/errorx"
)

// VerifyPersonalMessage checks a wallet personal-message signature against
// the message bytes and the expected signer address. Every failure path
// returns an error; there is no permissive fallback.
//
// The serialized signature is base64 of: scheme flag (1 byte), signature
// (64 bytes), public key (32 bytes). Only the ed25519 scheme is accepted.
func VerifyPersonalMessage(expectedAddress string, message []byte, serializedSigB64 string) error {
	raw, err := base64.StdEncoding.DecodeString(serializedSigB64)
	if err != nil {
		return errorx.InvalidSignature(
			fmt.Errorf("failed to decode signature: %w", err), nil)
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		return errorx.InvalidSignature(
			fmt.Errorf("unexpected signature length %d", len(raw)), nil)
	}
	if raw[0] != schemeFlagEd25519 {
		return errorx.InvalidSignature(
			fmt.Errorf("unsupported signature scheme 0x%02x", raw[0]),
			errorx.Ctx().Set("scheme", raw[0]))
	}
	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])

	derived := AddressFromPublicKey(pub)
	if !strings.EqualFold(derived, normalizeAddress(expectedAddress)) {
		return errorx.InvalidSignature(
			fmt.Errorf("signature public key does not match address"),
			errorx.Ctx().Set("expected", expectedAddress).Set("derived", derived))
	}

	digest := intentDigest(intentPersonalMessage, bcsBytes(message))
	if !ed25519.Verify(pub, digest, sig) {
		return errorx.InvalidSignature(
			fmt.Errorf("signature does not verify against message"),
			errorx.Ctx().Set("address", expectedAddress))
	}
	return nil
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}
	return strings.ToLower(addr)
}
