package sigs

import (
	"testing"

	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("deposit")
	tx := NewStdTx(bz)

	tbz, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, bz, tbz)

	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.Len(t, c1, 64)

	// sign bytes change with tx, chain id and sequence
	ct, err := BuildSignBytes([]byte("withdraw"), chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "bad", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	cond := priv.PublicKey().Condition()

	chainID := "custody-sigs"
	bz := []byte("initialize escrow")
	tx := NewStdTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)

	// signing is deterministic
	sig2a, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sig2, sig2a)

	// a new key must start with sequence 0
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = VerifySignature(kv, new(StdSignature), bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	signer, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, cond, signer)

	seq, err := NextSequence(kv, priv.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	signer, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, cond, signer)

	// jumping and replays are a no-no
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// another chain does not match
	_, err = VerifySignature(kv, sig2, bz, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// tampered signature does not match
	bad := *sig2
	bad.Signature = &crypto.Signature{Ed25519: append([]byte{42}, sig2.Signature.Ed25519[1:]...)}
	_, err = VerifySignature(kv, &bad, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = VerifySignature(kv, sig2, bz, chainID)
	require.NoError(t, err)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()

	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()

	chainID := "custody-multi"
	tx := NewStdTx([]byte("deposit 100"))
	other := NewStdTx([]byte("deposit 1000"))

	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)
	badSig, err := SignTx(priv, other, chainID, 0)
	require.NoError(t, err)

	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{badSig}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.Error(t, err)

	tx.Signatures = []*StdSignature{sig}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 1)
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])

	// replay of the first signature is blocked
	tx.Signatures = []*StdSignature{sig, sig2}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.Error(t, err)

	tx.Signatures = []*StdSignature{sig1, sig2}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])
	assert.Equal(t, priv2.PublicKey().Condition(), signers[1])
}

func TestStdSignatureSerialization(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	sig, err := SignTx(priv, NewStdTx([]byte("x")), "custody-serial", 7)
	require.NoError(t, err)

	raw, err := sig.Marshal()
	require.NoError(t, err)
	var got StdSignature
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, sig, &got)

	user := UserData{Pubkey: priv.PublicKey(), Sequence: 3}
	raw, err = user.Marshal()
	require.NoError(t, err)
	var loaded UserData
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, user, loaded)
}

func TestUserDataValidate(t *testing.T) {
	assert.NoError(t, (&UserData{}).Validate())
	assert.Error(t, (&UserData{Sequence: -1}).Validate())
	assert.Error(t, (&UserData{Sequence: 1}).Validate())
	assert.NoError(t, (&UserData{Sequence: 1, Pubkey: crypto.GenPrivKeyEd25519().PublicKey()}).Validate())
}
