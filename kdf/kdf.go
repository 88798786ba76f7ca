// Package kdf derives the two families of keys ironvault needs from a
// (username, passphrase) pair: the on-disk master key used by the file
// container (package container), and the network keys used to encrypt
// individual objects for the sync engine (package sync).
//
// Both families bottom out in the same primitive, PassphraseDerive, which
// is scrypt under a fixed salt/parameter discipline (spec §4.5).
package kdf

import (
	"encoding/hex"

	"github.com/ironvault-project/ironvault/primitives"
	"github.com/ironvault-project/ironvault/siv"
)

// Fixed parameters and HMAC keys for network-key derivation (spec §4.5,
// §6 "Universal constants"). These never change across format versions;
// unlike on-disk scrypt parameters they are not stored anywhere.
var (
	NetworkScryptParams = primitives.ScryptParams{LogN: 20, R: 8, P: 128}

	networkSaltHMACKey = mustHex("51c3d00bde2b3258ca179272153ed0fd2e475604da14bac2b7a3b9bcb0504fba")
	loginIDHMACKey     = mustHex("87650906efda47657a1f95368f7af711c0d10e514735443c0bdca46e1181aac4")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("kdf: invalid embedded hex constant: " + err.Error())
	}
	return b
}

// PassphraseDerive is the scrypt binding from spec §4.5:
//
//	PassphraseDerive(salt, passphrase, log_n, r, p, length) =
//	    scrypt(salt=salt, password=passphrase, N=1<<log_n, r, p, dkLen=length)
func PassphraseDerive(salt, passphrase []byte, params primitives.ScryptParams, length int) ([]byte, error) {
	return primitives.Scrypt(passphrase, salt, params, length)
}

// NetworkKeys bundles the SIV keys and login credentials derived for the
// sync engine: keys encrypt/decrypt objects for transport, login_id/
// login_key authenticate the connection to the remote backend.
type NetworkKeys struct {
	Keys     siv.Keys
	LoginKey [32]byte
	LoginID  [32]byte
}

// DeriveMasterKey derives the on-disk master key material from a
// passphrase and the container's scrypt_salt field (spec §4.6: "derive
// keys" from the stored salt and params), returning it pre-split into the
// two 128-byte SIV keys.
func DeriveMasterKey(passphrase []byte, scryptSalt []byte, params primitives.ScryptParams) (siv.Keys, error) {
	raw, err := PassphraseDerive(scryptSalt, passphrase, params, siv.KeySize*2)
	if err != nil {
		return siv.Keys{}, err
	}
	defer primitives.Zero(raw)

	var keys siv.Keys
	copy(keys.SivKey[:], raw[:siv.KeySize])
	copy(keys.CipherKey[:], raw[siv.KeySize:])
	return keys, nil
}

// DeriveNetworkKeys derives the network keys and login credentials for a
// (username, passphrase) pair, using the fixed aggressive scrypt
// parameters and the two embedded HMAC keys from spec §4.5/§6. The result
// depends only on username and passphrase, so it can be cached by the
// caller (package store) and only needs to be recomputed when either
// changes.
func DeriveNetworkKeys(username, passphrase []byte) (NetworkKeys, error) {
	networkSaltFull := primitives.HmacSha512(networkSaltHMACKey, username)
	networkSalt := networkSaltFull[:32]

	raw, err := PassphraseDerive(networkSalt, passphrase, NetworkScryptParams, siv.KeySize*2+32)
	if err != nil {
		return NetworkKeys{}, err
	}
	defer primitives.Zero(raw)

	var out NetworkKeys
	copy(out.Keys.SivKey[:], raw[:siv.KeySize])
	copy(out.Keys.CipherKey[:], raw[siv.KeySize:siv.KeySize*2])
	copy(out.LoginKey[:], raw[siv.KeySize*2:])

	loginIDFull := primitives.HmacSha512(loginIDHMACKey, username)
	copy(out.LoginID[:], loginIDFull[:32])

	return out, nil
}
