package sigs

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without any signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of signers who signed the tx.
	GetSignatures() []*StdSignature
}
