package pii_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/caesariomj/jogjaelectrik-sub000/pii"
	"github.com/stretchr/testify/assert"
)

const (
	keyA = "6368616e676520746869732070617373776f726420746f206120736563726574"
	keyB = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := pii.NewCodec(keyA)
	assert.NoError(t, err)

	for _, plaintext := range []string{"081234567890", "Jl. Malioboro No. 1, Yogyakarta", "55213", ""} {
		sealed, err := codec.Encrypt(plaintext)
		assert.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		opened, err := codec.Decrypt(sealed)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestCodec_NoncesAreRandom(t *testing.T) {
	codec, err := pii.NewCodec(keyA)
	assert.NoError(t, err)

	first, err := codec.Encrypt("081234567890")
	assert.NoError(t, err)
	second, err := codec.Encrypt("081234567890")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second, "the same plaintext never seals to the same ciphertext")
}

func TestCodec_WrongKeyFails(t *testing.T) {
	codecA, err := pii.NewCodec(keyA)
	assert.NoError(t, err)
	codecB, err := pii.NewCodec(keyB)
	assert.NoError(t, err)

	sealed, err := codecA.Encrypt("081234567890")
	assert.NoError(t, err)

	_, err = codecB.Decrypt(sealed)
	assert.Error(t, err)
}

func TestCodec_TamperedCiphertextFails(t *testing.T) {
	codec, err := pii.NewCodec(keyA)
	assert.NoError(t, err)

	sealed, err := codec.Encrypt("081234567890")
	assert.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	assert.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = codec.Decrypt(tampered)
	assert.Error(t, err)
}

func TestNewCodec_RejectsBadKeys(t *testing.T) {
	_, err := pii.NewCodec("not-hex")
	assert.Error(t, err)

	// 16 bytes, too short for ChaCha20-Poly1305.
	_, err = pii.NewCodec(strings.Repeat("ab", 16))
	assert.Error(t, err)
}

func TestCodec_RejectsGarbageInput(t *testing.T) {
	codec, err := pii.NewCodec(keyA)
	assert.NoError(t, err)

	_, err = codec.Decrypt("%%%not-base64%%%")
	assert.Error(t, err)

	// Valid base64 but shorter than a nonce.
	_, err = codec.Decrypt(base64.StdEncoding.EncodeToString([]byte("abc")))
	assert.Error(t, err)
}
