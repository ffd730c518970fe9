package proxy

// Response is the outcome of one proxied search, ready to be written to the
// client. Exactly one of Body and Raw is set: Body carries a value to encode
// as JSON, Raw carries upstream bytes to pass through verbatim.
type Response struct {
	// Status is the HTTP status code to send.
	Status int

	// Body is a JSON-encodable value, if the proxy produced the response.
	Body any

	// Raw is a verbatim upstream body, if the upstream response is passed
	// through unchanged.
	Raw []byte

	// ContentType is the Content-Type for Raw. Empty means application/json.
	ContentType string
}
