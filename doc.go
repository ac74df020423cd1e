// Package hawk implements the Hawk HTTP authentication scheme: clients and
// servers exchange HMAC-signed requests and responses without ever sending
// the shared secret on the wire.
//
// The engine is stateless: every operation is a pure function of its inputs,
// and independent calls may run concurrently. The only cross-request state
// is the optional nonce replay tracker the integrator supplies.
//
// # Credentials
//
// Both peers hold the same Credentials: an opaque id the server uses to look
// up the key, and the key itself (secret bytes plus digest algorithm):
//
//	key, err := hawk.NewKey(secret, hawk.SHA256)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	creds := &hawk.Credentials{ID: "test-client", Key: key}
//
// # Signing Requests
//
// Build the canonical request, sign it, and attach the rendered header:
//
//	req, err := hawk.RequestFromURL("POST", u)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.Hash, _ = hawk.HashPayload("text/plain", hawk.SHA256, body)
//
//	header, err := req.MakeHeader(creds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	value, err := header.Render()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	httpReq.Header.Set("Authorization", value)
//
// # Validating Requests
//
// The server parses the header, looks up the key by the asserted id, and
// validates against its own view of the request:
//
//	header, err := hawk.ParseHeader(httpReq.Header.Get("Authorization"))
//	if err != nil {
//	    // 401
//	}
//
//	req, err := hawk.RequestFromHTTP(httpReq)
//	if err != nil {
//	    // 401
//	}
//
//	err = req.ValidateHeader(header, hawk.ValidateConfig{
//	    Key:        creds.Key,
//	    NonceCheck: cache.Seen,
//	})
//
// Whatever the validation error, the peer should only ever see the same 401
// with a "WWW-Authenticate: Hawk" challenge; distinguishing a MAC mismatch
// from a parse failure gives a forger an oracle.
//
// # Signing Responses
//
// The reply leg binds its MAC to the request's ts and nonce, so a response
// cannot be replayed against a different request:
//
//	resp := req.MakeResponse(header)
//	resp.Ext = "server-ext"
//	serverHeader, err := resp.MakeHeader(creds.Key)
//
// The client validates the Server-Authorization value with the header it
// originally sent:
//
//	resp := req.MakeResponse(sentHeader)
//	err = resp.ValidateHeader(serverHeader, creds.Key)
//
// # Bewits
//
// A bewit is a URL-embeddable credential with a fixed expiry,
// carried as an ordinary query parameter:
//
//	bewit, err := req.MakeBewit(creds, 60*time.Second)
//	url := hawk.InsertBewit("/resource?foo=bar", bewit)
//
//	bewit, stripped, err := hawk.ExtractBewit(path)
//	req.Path = stripped
//	err = req.ValidateBewit(bewit, hawk.ValidateConfig{Key: creds.Key})
//
// # Client Transport and Server Middleware
//
// NewTransport creates an http.RoundTripper that signs all outgoing
// requests and optionally authenticates the responses. Middleware returns a
// net/http middleware that validates incoming requests, resolving
// credentials through a lookup func such as a CredentialsStore loaded from
// a YAML file:
//
//	store, err := hawk.LoadCredentialsFile("credentials.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mw, err := hawk.Middleware(hawk.MiddlewareConfig{
//	    Lookup:     store.Lookup,
//	    NonceCheck: hawk.NewReplayCache(0).Seen,
//	    AllowBewit: true,
//	})
//
// Hawk authenticates requests; it does not encrypt them. Run it over TLS
// when confidentiality matters.
package hawk
