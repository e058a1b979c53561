package cryptox

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProtector(t *testing.T, key, purpose string) *Protector {
	t.Helper()
	p, err := NewProtector([]byte(key), purpose)
	require.NoError(t, err)
	return p
}

func TestProtector_RoundTrip(t *testing.T) {
	p := newTestProtector(t, "master-key", SecretMaskingPurpose)

	for _, s := range []string{"X", "Exemplo@1234", "ção 🔑", strings.Repeat("a", 500)} {
		masked, err := p.Protect(s)
		require.NoError(t, err)
		assert.NotEqual(t, s, masked)
		assert.NotContains(t, masked, s)
		assert.Equal(t, s, p.Unprotect(masked))
	}
}

func TestProtector_ProtectIsRandomized(t *testing.T) {
	p := newTestProtector(t, "master-key", SecretMaskingPurpose)

	a, err := p.Protect("same")
	require.NoError(t, err)
	b, err := p.Protect("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestProtector_UnprotectPassesThroughLegacyValues(t *testing.T) {
	p := newTestProtector(t, "master-key", SecretMaskingPurpose)

	for _, s := range []string{"", "Admin@123", "plain text with spaces", "QUJD", "not.base64!"} {
		assert.Equal(t, s, p.Unprotect(s))
	}
}

func TestProtector_UnprotectRejectsTampering(t *testing.T) {
	p := newTestProtector(t, "master-key", SecretMaskingPurpose)

	masked, err := p.Protect("secret")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(masked)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	assert.Equal(t, tampered, p.Unprotect(tampered))
}

func TestProtector_KeysAreIsolated(t *testing.T) {
	p := newTestProtector(t, "master-key", SecretMaskingPurpose)
	otherKey := newTestProtector(t, "other-key", SecretMaskingPurpose)
	otherPurpose := newTestProtector(t, "master-key", "some.other.purpose")

	masked, err := p.Protect("secret")
	require.NoError(t, err)

	assert.Equal(t, masked, otherKey.Unprotect(masked))
	assert.Equal(t, masked, otherPurpose.Unprotect(masked))
}

func TestNewProtector_Errors(t *testing.T) {
	_, err := NewProtector(nil, SecretMaskingPurpose)
	assert.Error(t, err)

	_, err = NewProtector([]byte("k"), "")
	assert.Error(t, err)
}
