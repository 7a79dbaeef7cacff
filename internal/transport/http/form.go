package http

import (
	"net/http"

	"github.com/cwrk-planet/guestbook/internal/domain"

	"github.com/gorilla/schema"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// decodeSubmission reads name and message from a url-encoded POST body.
func decodeSubmission(r *http.Request) (domain.Submission, error) {
	var sub domain.Submission
	if err := r.ParseForm(); err != nil {
		return sub, err
	}
	if err := formDecoder.Decode(&sub, r.PostForm); err != nil {
		return sub, err
	}
	return sub, nil
}
