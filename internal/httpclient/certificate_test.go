package httpclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientCertificatePEM(t *testing.T) {
	path := writePEMCertificate(t, "pem-client")

	cert, err := LoadClientCertificate(path, "")
	require.NoError(t, err)
	require.Len(t, cert.Certificate, 1)
	assert.NotNil(t, cert.PrivateKey)
}

func TestLoadClientCertificatePKCS12(t *testing.T) {
	path := writePKCS12Certificate(t, "pfx-client", "hunter2")

	cert, err := LoadClientCertificate(path, "hunter2")
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)
	assert.Equal(t, "pfx-client", cert.Leaf.Subject.CommonName)
	assert.NotNil(t, cert.PrivateKey)

	_, err = LoadClientCertificate(path, "wrong")
	assert.Error(t, err)
}

func TestLoadClientCertificateErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadClientCertificate(filepath.Join(dir, "nope.pem"), "")
		assert.Error(t, err)
	})

	t.Run("garbage bytes", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.pfx")
		require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))
		_, err := LoadClientCertificate(path, "")
		assert.Error(t, err)
	})

	t.Run("pem without key", func(t *testing.T) {
		path := filepath.Join(dir, "cert-only.pem")
		require.NoError(t, os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"), 0o600))
		_, err := LoadClientCertificate(path, "")
		assert.Error(t, err)
	})
}
