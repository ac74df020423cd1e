package hawk

import "strings"

// HashPayload computes the digest that binds a request or response body
// into the MAC. The pre-image is:
//
//	hawk.1.payload\n
//	<content-type>\n
//	<body>\n
//
// The content type is used verbatim, including any parameters such as
// charset: case and whitespace are significant. A signer sending
// "text/plain; charset=utf-8" and a verifier recomputing with "text/plain"
// produce different digests even for identical bodies. This is the most
// common Hawk interoperability failure; both sides must hash the exact
// Content-Type value that travels on the wire.
func HashPayload(contentType string, alg Algorithm, body []byte) ([]byte, error) {
	newHash, err := alg.hashNew()
	if err != nil {
		return nil, err
	}

	h := newHash()

	var b strings.Builder
	b.Grow(len(tagPayload) + len(contentType) + 2)
	b.WriteString(tagPayload)
	b.WriteByte('\n')
	b.WriteString(contentType)
	b.WriteByte('\n')

	h.Write([]byte(b.String()))
	h.Write(body)
	h.Write([]byte{'\n'})

	return h.Sum(nil), nil
}
