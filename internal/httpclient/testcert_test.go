package httpclient

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"software.sslmate.com/src/go-pkcs12"
)

func newTestCertificate(t *testing.T, commonName string) (*x509.Certificate, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert, key
}

func writePEMCertificate(t *testing.T, commonName string) string {
	t.Helper()
	cert, key := newTestCertificate(t, commonName)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
	data = append(data, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})...)

	path := filepath.Join(t.TempDir(), "client.pem")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writePKCS12Certificate(t *testing.T, commonName, password string) string {
	t.Helper()
	cert, key := newTestCertificate(t, commonName)
	data, err := pkcs12.Modern.Encode(key, cert, nil, password)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "client.pfx")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
