package httpclient

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"os"

	"software.sslmate.com/src/go-pkcs12"
)

var pemMarker = []byte("-----BEGIN")

// LoadClientCertificate reads a client certificate and its private key from
// path. PEM files must hold both the certificate chain and the key. Anything
// else is decoded as PKCS#12 (.pfx/.p12) using password.
func LoadClientCertificate(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("client certificate: %w", err)
	}

	if bytes.Contains(data, pemMarker) {
		cert, err := tls.X509KeyPair(data, data)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("client certificate %s: %w", path, err)
		}
		return cert, nil
	}

	key, leaf, chain, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("client certificate %s: %w", path, err)
	}
	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range chain {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}
	return cert, nil
}
