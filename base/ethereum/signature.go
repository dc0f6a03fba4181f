package ethereum

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidSignatureLength = fmt.Errorf("signature must be %d bytes long", crypto.SignatureLength)

// ValidateMsgSignature checks signature against the EIP-191 text hash of message
func ValidateMsgSignature(message []byte, signature, signer string) (bool, error) {
	return validateSignature(accounts.TextHash(message), signature, signer)
}

// ValidateHashSignature checks signature against an already computed digest
func ValidateHashSignature(hash []byte, signature, signer string) (bool, error) {
	return validateSignature(hash, signature, signer)
}

func validateSignature(hash []byte, signature, signer string) (bool, error) {
	if !common.IsHexAddress(signer) {
		return false, errors.New("invalid signer address")
	}
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, err
	}
	recovered, err := RecoverSigner(hash, sig)
	if err != nil {
		return false, err
	}
	return recovered == common.HexToAddress(signer), nil
}

// RecoverSigner returns the address for the account that was used to create the signature.
// Both 0/1 and 27/28 recovery ids are accepted, sig is left untouched.
// adapted from go-ethereum internal/ethapi ecRecover
func RecoverSigner(hash []byte, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignatureLength
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)

	// support both versions of `eth_sign` responses
	if normalized[crypto.RecoveryIDOffset] < 27 {
		normalized[crypto.RecoveryIDOffset] += 27
	}

	if normalized[crypto.RecoveryIDOffset] != 27 && normalized[crypto.RecoveryIDOffset] != 28 {
		return common.Address{}, errors.New("invalid Ethereum signature (V is not 27 or 28)")
	}

	normalized[crypto.RecoveryIDOffset] -= 27 // Transform yellow paper V from 27/28 to 0/1

	rpk, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, err
	}

	return crypto.PubkeyToAddress(*rpk), nil
}
