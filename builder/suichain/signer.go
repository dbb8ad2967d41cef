package suichain

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ed25519 scheme flag, prefixed to both serialized signatures and the
// address derivation input.
const schemeFlagEd25519 byte = 0x00

// Intent prefixes per the Sui signing scheme. The first byte is the scope,
// the remaining two are version and app id, both zero.
var (
	intentTransactionData = []byte{0, 0, 0}
	intentPersonalMessage = []byte{3, 0, 0}
)

// Signer holds the platform ed25519 key used to co-sign and submit mint
// transactions.
type Signer struct {
	priv ed25519.PrivateKey
}

// NewSigner builds a signer from a 32-byte hex-encoded ed25519 seed, with or
// without a 0x prefix.
func NewSigner(seedHex string) (*Signer, error) {
	seedHex = strings.TrimPrefix(strings.TrimSpace(seedHex), "0x")
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode platform key hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("platform key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Address derives the Sui address of the platform key: the blake2b-256 hash
// of the scheme flag followed by the public key.
func (s *Signer) Address() string {
	pub := s.priv.Public().(ed25519.PublicKey)
	return AddressFromPublicKey(pub)
}

func AddressFromPublicKey(pub ed25519.PublicKey) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{schemeFlagEd25519})
	h.Write(pub)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// SignTransaction signs base64 transaction bytes under the transaction-data
// intent and returns the serialized signature
// base64(flag || sig || pubkey) expected by sui_executeTransactionBlock.
func (s *Signer) SignTransaction(txBytesB64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txBytesB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode tx bytes: %w", err)
	}
	digest := intentDigest(intentTransactionData, txBytes)
	sig := ed25519.Sign(s.priv, digest)
	return serializeSignature(sig, s.priv.Public().(ed25519.PublicKey)), nil
}

// SignPersonalMessage signs raw message bytes under the personal-message
// intent. Used in tests and by tooling that prepares wallet-style
// signatures.
func (s *Signer) SignPersonalMessage(message []byte) string {
	digest := intentDigest(intentPersonalMessage, bcsBytes(message))
	sig := ed25519.Sign(s.priv, digest)
	return serializeSignature(sig, s.priv.Public().(ed25519.PublicKey))
}

func serializeSignature(sig []byte, pub ed25519.PublicKey) string {
	out := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	out = append(out, schemeFlagEd25519)
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out)
}

// intentDigest is blake2b-256 over the 3-byte intent followed by the
// payload.
func intentDigest(intent, payload []byte) []byte {
	h, _ := blake2b.New256(nil)
	h.Write(intent)
	h.Write(payload)
	return h.Sum(nil)
}

// bcsBytes encodes a byte slice as a BCS vector<u8>: a ULEB128 length
// followed by the raw bytes. Personal messages are wrapped this way before
// hashing.
func bcsBytes(b []byte) []byte {
	out := appendULEB128(nil, uint64(len(b)))
	return append(out, b...)
}

func appendULEB128(out []byte, v uint64) []byte {
	for v >= 0x80 {
		out = append(out, byte(v)|0x80)
		v >>= 7
	}
	return append(out, byte(v))
}
