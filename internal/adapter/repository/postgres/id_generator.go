package postgres

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// ReferenceGenerator generates transaction references of the form
// TXN_<32 uppercase hex characters>.
type ReferenceGenerator struct{}

// NewReferenceGenerator creates a new ReferenceGenerator.
func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{}
}

// GenerateReference generates a new transaction reference.
func (g *ReferenceGenerator) GenerateReference() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)

	return "TXN_" + strings.ToUpper(hex.EncodeToString(buf))
}

// WalletNumberGenerator generates 16-digit wallet numbers.
type WalletNumberGenerator struct{}

// NewWalletNumberGenerator creates a new WalletNumberGenerator.
func NewWalletNumberGenerator() *WalletNumberGenerator {
	return &WalletNumberGenerator{}
}

// GenerateWalletNumber generates a new 16-digit wallet number.
func (g *WalletNumberGenerator) GenerateWalletNumber() string {
	const digits = "0123456789"

	buf := make([]byte, 16)
	_, _ = rand.Read(buf)

	var sb strings.Builder
	sb.Grow(len(buf))
	for _, b := range buf {
		sb.WriteByte(digits[int(b)%len(digits)])
	}

	return sb.String()
}
