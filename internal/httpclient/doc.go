// Package httpclient provides the HTTP client and request construction for postfire.
//
// The httpclient package handles the single outgoing request of a run:
//   - Client construction with an optional TLS client certificate (PEM or PKCS#12)
//   - Body construction selected by the declared content type
//   - Additional headers applied in declared order
//   - Authentication integration through [AuthProvider]
//
// # Body Building
//
// Use [NewBodyBuilder] to turn configuration into a [Body]:
//
//	bodies, err := httpclient.NewBodyBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	body, err := bodies.Build()
//
// The declared content type picks the source of the body:
//   - application/x-www-form-urlencoded: formDataKeyAndValues, URL-encoded in order
//   - multipart/form-data: the raw bytes of fileToPostPath
//   - anything else: the text of the payload file, labelled with the declared type
//
// # Request Building
//
// Use [NewRequestBuilderWithAuth] to combine verb, target, body and credentials:
//
//	builder := httpclient.NewRequestBuilderWithAuth("POST", cfg.URL, body, provider)
//	req, err := builder.Build(ctx)
//
// # HTTP Client
//
// [NewClient] creates the client. Options select the timeout and client certificate:
//
//	client, err := httpclient.NewClient(
//		httpclient.WithClientCertificate(cfg.ClientCertificatePath, cfg.ClientCertificatePassword),
//	)
package httpclient
